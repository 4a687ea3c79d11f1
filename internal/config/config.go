// Package config provides hierarchical configuration loading for the formalizer.
// Precedence: defaults < YAML file < environment variables.
package config

import (
	"time"

	"github.com/aretw0/formalizer/pkg/adapters/llm"
	"github.com/aretw0/formalizer/pkg/ports"
)

// Config holds all runtime configuration.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Remote  Remote  `mapstructure:"remote"`
	History History `mapstructure:"history"`
	Redis   Redis   `mapstructure:"redis"`
	Logging Logging `mapstructure:"logging"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Remote holds the chat-completion endpoint configuration.
// APIKey is only ever populated from the environment.
type Remote struct {
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	APIKey   string        `mapstructure:"-"`
}

// History holds session history retention and protection.
// EncryptionKey is only ever populated from the environment.
type History struct {
	Limit         int           `mapstructure:"limit"`
	TTL           time.Duration `mapstructure:"ttl"` // Redis only; 0 = no expiry
	RedactPII     bool          `mapstructure:"redact_pii"`
	EncryptionKey string        `mapstructure:"-"` // base64, 32 bytes
}

// Redis holds the optional Redis connection. Empty Addr keeps history in memory.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" | "json"
}

// Defaults returns a Config with sensible default values for local use.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Remote: Remote{
			Endpoint: llm.DefaultEndpoint,
			Model:    llm.DefaultModel,
			Timeout:  llm.DefaultTimeout,
		},
		History: History{
			Limit: ports.DefaultHistoryLimit,
		},
		Redis: Redis{
			Prefix: "formalizer:history:",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}
