package extension

import (
	"time"

	"github.com/xraph/crafting"
	"github.com/xraph/crafting/catalog"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/plugin"
	"github.com/xraph/crafting/store"
)

// Option configures the crafting Forge extension.
type Option func(*Extension)

// WithStore sets the store for the crafting engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithCatalog sets the item catalog the engine prices projects from.
func WithCatalog(c catalog.Catalog) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, crafting.WithCatalog(c))
	}
}

// WithInventory sets the inventory the engine pays from and grants into.
func WithInventory(inv inventory.Inventory) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, crafting.WithInventory(inv))
	}
}

// WithEngineOption passes a crafting.Option through to the underlying engine.
func WithEngineOption(opt crafting.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a crafting plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, crafting.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithDefaultStrategy sets the fallback payment strategy.
func WithDefaultStrategy(s string) Option {
	return func(e *Extension) { e.config.DefaultStrategy = s }
}

// WithPluginTimeout sets the per-hook plugin timeout.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.PluginTimeout = d }
}

// WithJournalRetention purges older journal entries on start.
func WithJournalRetention(d time.Duration) Option {
	return func(e *Extension) { e.config.JournalRetention = d }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
