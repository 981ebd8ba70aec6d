// Package plugin provides an extensible plugin system for the crafting engine.
// Plugins can hook into project lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Project lifecycle hooks
// ──────────────────────────────────────────────────

// OnProjectBegun is called after a project is created.
type OnProjectBegun interface {
	Plugin
	OnProjectBegun(ctx context.Context, p *project.Project, cost types.Coins) error
}

// OnProjectProgressed is called after progress is added to a project.
type OnProjectProgressed interface {
	Plugin
	OnProjectProgressed(ctx context.Context, p *project.Project, amount types.Coins) error
}

// OnProjectSetback is called after progress is removed from a project.
// fatal is true when the setback destroyed the project.
type OnProjectSetback interface {
	Plugin
	OnProjectSetback(ctx context.Context, p *project.Project, amount types.Coins, fatal bool) error
}

// OnProjectCompleted is called after a completion attempt.
type OnProjectCompleted interface {
	Plugin
	OnProjectCompleted(ctx context.Context, p *project.Project, outcome inventory.GrantOutcome) error
}

// OnProjectAbandoned is called after a project is abandoned.
type OnProjectAbandoned interface {
	Plugin
	OnProjectAbandoned(ctx context.Context, ownerID string, projectID id.ProjectID) error
}

// OnProjectEdited is called after a manual edit.
type OnProjectEdited interface {
	Plugin
	OnProjectEdited(ctx context.Context, before, after *project.Project) error
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnPaymentSettled is called after a payment was applied to the payer.
type OnPaymentSettled interface {
	Plugin
	OnPaymentSettled(ctx context.Context, payerID string, strategy payment.Strategy, cost types.Coins, res payment.Result) error
}

// OnPaymentDeclined is called when the payer cannot cover a cost.
type OnPaymentDeclined interface {
	Plugin
	OnPaymentDeclined(ctx context.Context, payerID string, strategy payment.Strategy, cost types.Coins) error
}
