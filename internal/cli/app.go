package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/formalizer"
	"github.com/aretw0/formalizer/internal/config"
	"github.com/aretw0/formalizer/pkg/adapters/llm"
	"github.com/aretw0/formalizer/pkg/adapters/memory"
	"github.com/aretw0/formalizer/pkg/adapters/redis"
	"github.com/aretw0/formalizer/pkg/observability"
	"github.com/aretw0/formalizer/pkg/persistence/middleware"
	"github.com/aretw0/formalizer/pkg/ports"
	"github.com/aretw0/formalizer/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// AppOptions tweak how the App is assembled.
type AppOptions struct {
	Debug bool
	// RequireRedis fails construction when no Redis address is configured.
	RequireRedis bool
}

// App is the fully wired formalizer shared by every command.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *formalizer.Engine
	Sessions *session.Manager
	Registry *prometheus.Registry
	Redis    *redis.Store // nil when history lives in memory

	index   sessionIndex // the unwrapped store, for listing sessions
	closers []func() error
}

// NewApp builds the engine, history store and metrics from cfg.
func NewApp(ctx context.Context, cfg config.Config, opts AppOptions) (*App, error) {
	logger, err := createLogger(cfg.Logging, opts.Debug)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(app.Registry)

	// 1. Engine
	engineOpts := []formalizer.Option{
		formalizer.WithLogger(logger),
		formalizer.WithRemoteTimeout(cfg.Remote.Timeout),
		formalizer.WithLifecycleHooks(metrics.Hooks()),
		formalizer.WithAPIKey(cfg.Remote.APIKey,
			llm.WithEndpoint(cfg.Remote.Endpoint),
			llm.WithModel(cfg.Remote.Model),
			llm.WithTimeout(cfg.Remote.Timeout),
		),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, formalizer.WithLifecycleHooks(createDebugHooks(logger)))
	}
	app.Engine = formalizer.New(engineOpts...)
	if !app.Engine.Configured() {
		logger.Info("No API key configured, emails will use the basic template", "env", config.EnvAPIKey)
	}

	// 2. History
	var (
		store      ports.HistoryStore
		sessionOpt = []session.Option{session.WithLogger(logger)}
	)
	switch {
	case cfg.Redis.Addr != "":
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithLimit(cfg.History.Limit),
			redis.WithTTL(cfg.History.TTL),
		)
		app.closers = append(app.closers, rs.Close)
		if err := rs.Ping(ctx); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
		}
		app.Redis = rs
		store = rs
		sessionOpt = append(sessionOpt, session.WithLocker(redis.NewLocker(rs.Client(), cfg.Redis.Prefix)))
		logger.Debug("History stored in redis", "addr", cfg.Redis.Addr, "limit", cfg.History.Limit)
	case opts.RequireRedis:
		return nil, errors.New("redis is not configured (set FORMALIZER_REDIS_ADDR or redis.addr)")
	default:
		store = memory.NewStore(memory.WithLimit(cfg.History.Limit))
		logger.Debug("History stored in memory", "limit", cfg.History.Limit)
	}
	if idx, ok := store.(sessionIndex); ok {
		app.index = idx
	}
	store, err = protectHistory(store, cfg.History)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Sessions = session.NewManager(app.Engine, store, sessionOpt...)

	return app, nil
}

// sessionIndex is implemented by stores that can enumerate sessions.
type sessionIndex interface {
	Sessions(ctx context.Context) ([]string, error)
}

// protectHistory wraps store with the configured persistence middlewares.
func protectHistory(store ports.HistoryStore, cfg config.History) (ports.HistoryStore, error) {
	var mws []middleware.Middleware
	if cfg.RedactPII {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns))
	}
	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.EnvHistoryKey, err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Chain(store, mws...), nil
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
