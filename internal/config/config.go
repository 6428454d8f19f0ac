// Package config provides configuration loading for memoryd.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/memoryd/internal/llm"
	"github.com/fyrsmithlabs/memoryd/internal/logging"
	"github.com/fyrsmithlabs/memoryd/internal/store"
	"github.com/fyrsmithlabs/memoryd/internal/translate"
)

// Config is the complete memoryd configuration.
type Config struct {
	Server      ServerConfig     `koanf:"server"`
	Logging     logging.Config   `koanf:"logging"`
	Store       store.Config     `koanf:"store"`
	LLM         llm.Config       `koanf:"llm"`
	Translation translate.Config `koanf:"translation"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Default returns the configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8900,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging:     logging.DefaultConfig(),
		Store:       store.DefaultConfig(),
		LLM:         llm.DefaultConfig(),
		Translation: translate.DefaultConfig(),
	}
}

// applyDefaults fills in zero values after loading.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.Translation.UserLang == "" {
		cfg.Translation.UserLang = def.Translation.UserLang
	}
	if cfg.Translation.ModelLang == "" {
		cfg.Translation.ModelLang = def.Translation.ModelLang
	}
}

// Validate checks the full configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Translation.Validate(); err != nil {
		return fmt.Errorf("translation: %w", err)
	}
	return nil
}
