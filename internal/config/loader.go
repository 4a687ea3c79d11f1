package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/formalizer/internal/logging"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "formalizer.yaml"

// EnvAPIKey names the variable holding the remote credential.
const EnvAPIKey = "GROQ_API_KEY"

// EnvHistoryKey names the variable holding the history encryption key.
const EnvHistoryKey = "FORMALIZER_HISTORY_KEY"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	if err := loadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and decodes it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) error {
	cfg.Remote.APIKey = os.Getenv(EnvAPIKey)
	cfg.History.EncryptionKey = os.Getenv(EnvHistoryKey)

	setString(&cfg.Remote.Endpoint, "FORMALIZER_ENDPOINT")
	setString(&cfg.Remote.Model, "FORMALIZER_MODEL")
	setString(&cfg.Server.Port, "FORMALIZER_PORT")
	setString(&cfg.Logging.Level, "FORMALIZER_LOG_LEVEL")
	setString(&cfg.Logging.Format, "FORMALIZER_LOG_FORMAT")
	setString(&cfg.Redis.Addr, "FORMALIZER_REDIS_ADDR")
	setString(&cfg.Redis.Password, "FORMALIZER_REDIS_PASSWORD")
	setString(&cfg.Redis.Prefix, "FORMALIZER_REDIS_PREFIX")

	return errors.Join(
		setDuration(&cfg.Remote.Timeout, "FORMALIZER_TIMEOUT"),
		setDuration(&cfg.Server.ShutdownTimeout, "FORMALIZER_SHUTDOWN_TIMEOUT"),
		setDuration(&cfg.History.TTL, "FORMALIZER_HISTORY_TTL"),
		setInt(&cfg.History.Limit, "FORMALIZER_HISTORY_LIMIT"),
		setInt(&cfg.Redis.DB, "FORMALIZER_REDIS_DB"),
		setBool(&cfg.History.RedactPII, "FORMALIZER_HISTORY_REDACT_PII"),
	)
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Remote.Endpoint == "" {
		return errors.New("remote.endpoint is required")
	}
	if cfg.Remote.Timeout <= 0 {
		return errors.New("remote.timeout must be positive")
	}
	if cfg.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
