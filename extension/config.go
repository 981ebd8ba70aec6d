package extension

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/xraph/crafting/payment"
)

// Config holds the crafting extension configuration.
// Fields can be set programmatically via Option functions, loaded from
// YAML configuration files (under "extensions.crafting" or "crafting" keys)
// and finally overridden from CRAFTING_* environment variables.
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `env:"CRAFTING_DISABLE_MIGRATE" json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// DefaultStrategy is the payment strategy used for owners who never
	// chose one (default: "fullCoin").
	DefaultStrategy string `env:"CRAFTING_DEFAULT_STRATEGY" json:"default_strategy" mapstructure:"default_strategy" yaml:"default_strategy"`

	// PluginTimeout bounds each plugin hook call (default: 5s).
	PluginTimeout time.Duration `env:"CRAFTING_PLUGIN_TIMEOUT" json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// JournalRetention purges journal entries older than this on start.
	// Zero keeps everything.
	JournalRetention time.Duration `env:"CRAFTING_JOURNAL_RETENTION" json:"journal_retention" mapstructure:"journal_retention" yaml:"journal_retention"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `env:"-" json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultStrategy: string(payment.DefaultStrategy),
		PluginTimeout:   5 * time.Second,
	}
}

// Validate reports configuration values the engine cannot use.
func (c Config) Validate() error {
	if c.DefaultStrategy != "" {
		if _, err := payment.ParseStrategy(c.DefaultStrategy); err != nil {
			return fmt.Errorf("crafting: default_strategy: %w", err)
		}
	}
	if c.PluginTimeout < 0 {
		return fmt.Errorf("crafting: plugin_timeout must not be negative, got %s", c.PluginTimeout)
	}
	if c.JournalRetention < 0 {
		return fmt.Errorf("crafting: journal_retention must not be negative, got %s", c.JournalRetention)
	}
	return nil
}

// applyEnv overrides cfg with any CRAFTING_* variables that are set.
// Unset variables leave the corresponding field untouched.
func applyEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("crafting: parse env: %w", err)
	}
	return cfg, nil
}
