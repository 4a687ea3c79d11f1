package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/formalizer/pkg/adapters/http"
)

// NewHTTPServer builds the HTTP server for the app without starting it.
func NewHTTPServer(app *App, addr string) *http.Server {
	handler := httpAdapter.NewHandler(app.Engine,
		httpAdapter.WithSessions(app.Sessions),
		httpAdapter.WithMetrics(app.Registry),
		httpAdapter.WithLogger(app.Logger),
	)
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, app *App, ln net.Listener) error {
	srv := NewHTTPServer(app, ln.Addr().String())

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting Formalizer Server", "addr", ln.Addr().String(), "remote", app.Engine.Configured())
		serverErrors <- srv.Serve(ln)
	}()

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		timeout := app.Config.Server.ShutdownTimeout
		app.Logger.Info("Start shutdown...", "timeout", timeout)

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "timeout", timeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		app.Logger.Info("Formalizer Server stopped gracefully")
		return nil
	}
}
