// Package extension provides the Forge extension adapter for the crafting
// engine.
//
// It implements the forge.Extension interface to integrate crafting into a
// Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions,
// via YAML configuration files under "extensions.crafting" or "crafting"
// keys, and via CRAFTING_* environment variables, which win over both.
package extension

import (
	"context"
	"errors"
	"time"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/crafting"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/store"
	"github.com/xraph/crafting/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "crafting"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Multi-session crafting project ledger"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the crafting engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *crafting.Engine
	store      store.Store
	engineOpts []crafting.Option
}

// New creates a new crafting Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying crafting engine.
// This is nil until Register is called.
func (e *Extension) Engine() *crafting.Engine { return e.engine }

// Config returns the resolved configuration.
func (e *Extension) Config() Config { return e.config }

// Register implements [forge.Extension]. It loads configuration,
// initializes the crafting engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if e.store == nil {
		e.store = memory.New()
	}

	e.engine = crafting.New(e.store, e.buildEngineOpts()...)

	return vessel.Provide(fapp.Container(), func() (*crafting.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("crafting: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	if e.config.JournalRetention > 0 {
		cutoff := time.Now().UTC().Add(-e.config.JournalRetention)
		if _, err := e.engine.PurgeJournal(ctx, cutoff); err != nil {
			e.Logger().Warn("crafting: journal purge failed",
				forge.F("error", err.Error()),
			)
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(ctx context.Context) error {
	defer e.MarkStopped()
	if e.engine != nil {
		return e.engine.Stop(ctx)
	}
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("crafting: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildEngineOpts constructs crafting.Option values from the resolved
// config. Pass-through options come last so they win.
func (e *Extension) buildEngineOpts() []crafting.Option {
	opts := make([]crafting.Option, 0, len(e.engineOpts)+2)

	if e.config.DefaultStrategy != "" {
		opts = append(opts, crafting.WithDefaultStrategy(payment.Strategy(e.config.DefaultStrategy)))
	}
	if e.config.PluginTimeout > 0 {
		opts = append(opts, crafting.WithPluginTimeout(e.config.PluginTimeout))
	}

	return append(opts, e.engineOpts...)
}

// ──────────────────────────────────────────────────
// Config loading
// ──────────────────────────────────────────────────

// loadConfiguration resolves config from YAML files, programmatic options
// and the environment, in increasing order of precedence.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("crafting: configuration is required but not found in config files; " +
				"ensure 'extensions.crafting' or 'crafting' key exists in your config")
		}
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	cfg, err := applyEnv(e.config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.config = cfg

	e.Logger().Debug("crafting: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("default_strategy", e.config.DefaultStrategy),
		forge.F("plugin_timeout", e.config.PluginTimeout),
		forge.F("journal_retention", e.config.JournalRetention),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.crafting", "crafting"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("crafting: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		e.Logger().Warn("crafting: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = defaults.DefaultStrategy
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML wins for valued fields; programmatic values fill gaps and
// programmatic bool flags override when true.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if yamlConfig.DefaultStrategy == "" {
		yamlConfig.DefaultStrategy = programmaticConfig.DefaultStrategy
	}
	if yamlConfig.PluginTimeout == 0 {
		yamlConfig.PluginTimeout = programmaticConfig.PluginTimeout
	}
	if yamlConfig.JournalRetention == 0 {
		yamlConfig.JournalRetention = programmaticConfig.JournalRetention
	}
	yamlConfig.RequireConfig = programmaticConfig.RequireConfig

	return mergeWithDefaults(yamlConfig)
}
