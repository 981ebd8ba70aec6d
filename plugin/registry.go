package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/types"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and dispatches hooks to them.
// Hook implementations are discovered once at registration.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onProjectBegun      []OnProjectBegun
	onProjectProgressed []OnProjectProgressed
	onProjectSetback    []OnProjectSetback
	onProjectCompleted  []OnProjectCompleted
	onProjectAbandoned  []OnProjectAbandoned
	onProjectEdited     []OnProjectEdited
	onPaymentSettled    []OnPaymentSettled
	onPaymentDeclined   []OnPaymentDeclined
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnProjectBegun); ok {
		r.onProjectBegun = append(r.onProjectBegun, v)
	}
	if v, ok := p.(OnProjectProgressed); ok {
		r.onProjectProgressed = append(r.onProjectProgressed, v)
	}
	if v, ok := p.(OnProjectSetback); ok {
		r.onProjectSetback = append(r.onProjectSetback, v)
	}
	if v, ok := p.(OnProjectCompleted); ok {
		r.onProjectCompleted = append(r.onProjectCompleted, v)
	}
	if v, ok := p.(OnProjectAbandoned); ok {
		r.onProjectAbandoned = append(r.onProjectAbandoned, v)
	}
	if v, ok := p.(OnProjectEdited); ok {
		r.onProjectEdited = append(r.onProjectEdited, v)
	}
	if v, ok := p.(OnPaymentSettled); ok {
		r.onPaymentSettled = append(r.onPaymentSettled, v)
	}
	if v, ok := p.(OnPaymentDeclined); ok {
		r.onPaymentDeclined = append(r.onPaymentDeclined, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeFor[OnInit]()},
	{"OnShutdown", reflect.TypeFor[OnShutdown]()},
	{"OnProjectBegun", reflect.TypeFor[OnProjectBegun]()},
	{"OnProjectProgressed", reflect.TypeFor[OnProjectProgressed]()},
	{"OnProjectSetback", reflect.TypeFor[OnProjectSetback]()},
	{"OnProjectCompleted", reflect.TypeFor[OnProjectCompleted]()},
	{"OnProjectAbandoned", reflect.TypeFor[OnProjectAbandoned]()},
	{"OnProjectEdited", reflect.TypeFor[OnProjectEdited]()},
	{"OnPaymentSettled", reflect.TypeFor[OnPaymentSettled]()},
	{"OnPaymentDeclined", reflect.TypeFor[OnPaymentDeclined]()},
}

// implementedInterfaces lists the hooks p implements, for logging.
func implementedInterfaces(p Plugin) []string {
	var names []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.typ) {
			names = append(names, h.name)
		}
	}
	return names
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// emit runs call for every hook in hooks, logging failures under event.
func emit[T Plugin](ctx context.Context, r *Registry, event string, hooks []T, call func(T) error) {
	for _, p := range hooks {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return call(p)
		}); err != nil {
			r.logger.Warn("plugin "+event+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	r.mu.RLock()
	hooks := r.onInit
	r.mu.RUnlock()

	emit(ctx, r, "OnInit", hooks, func(p OnInit) error { return p.OnInit(ctx, engine) })
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	hooks := r.onShutdown
	r.mu.RUnlock()

	emit(ctx, r, "OnShutdown", hooks, func(p OnShutdown) error { return p.OnShutdown(ctx) })
}

// EmitProjectBegun emits a project begun event.
func (r *Registry) EmitProjectBegun(ctx context.Context, pr *project.Project, cost types.Coins) {
	r.mu.RLock()
	hooks := r.onProjectBegun
	r.mu.RUnlock()

	emit(ctx, r, "OnProjectBegun", hooks, func(p OnProjectBegun) error {
		return p.OnProjectBegun(ctx, pr, cost)
	})
}

// EmitProjectProgressed emits a project progressed event.
func (r *Registry) EmitProjectProgressed(ctx context.Context, pr *project.Project, amount types.Coins) {
	r.mu.RLock()
	hooks := r.onProjectProgressed
	r.mu.RUnlock()

	emit(ctx, r, "OnProjectProgressed", hooks, func(p OnProjectProgressed) error {
		return p.OnProjectProgressed(ctx, pr, amount)
	})
}

// EmitProjectSetback emits a project setback event.
func (r *Registry) EmitProjectSetback(ctx context.Context, pr *project.Project, amount types.Coins, fatal bool) {
	r.mu.RLock()
	hooks := r.onProjectSetback
	r.mu.RUnlock()

	emit(ctx, r, "OnProjectSetback", hooks, func(p OnProjectSetback) error {
		return p.OnProjectSetback(ctx, pr, amount, fatal)
	})
}

// EmitProjectCompleted emits a project completed event.
func (r *Registry) EmitProjectCompleted(ctx context.Context, pr *project.Project, outcome inventory.GrantOutcome) {
	r.mu.RLock()
	hooks := r.onProjectCompleted
	r.mu.RUnlock()

	emit(ctx, r, "OnProjectCompleted", hooks, func(p OnProjectCompleted) error {
		return p.OnProjectCompleted(ctx, pr, outcome)
	})
}

// EmitProjectAbandoned emits a project abandoned event.
func (r *Registry) EmitProjectAbandoned(ctx context.Context, ownerID string, projectID id.ProjectID) {
	r.mu.RLock()
	hooks := r.onProjectAbandoned
	r.mu.RUnlock()

	emit(ctx, r, "OnProjectAbandoned", hooks, func(p OnProjectAbandoned) error {
		return p.OnProjectAbandoned(ctx, ownerID, projectID)
	})
}

// EmitProjectEdited emits a project edited event.
func (r *Registry) EmitProjectEdited(ctx context.Context, before, after *project.Project) {
	r.mu.RLock()
	hooks := r.onProjectEdited
	r.mu.RUnlock()

	emit(ctx, r, "OnProjectEdited", hooks, func(p OnProjectEdited) error {
		return p.OnProjectEdited(ctx, before, after)
	})
}

// EmitPaymentSettled emits a payment settled event.
func (r *Registry) EmitPaymentSettled(ctx context.Context, payerID string, strategy payment.Strategy, cost types.Coins, res payment.Result) {
	r.mu.RLock()
	hooks := r.onPaymentSettled
	r.mu.RUnlock()

	emit(ctx, r, "OnPaymentSettled", hooks, func(p OnPaymentSettled) error {
		return p.OnPaymentSettled(ctx, payerID, strategy, cost, res)
	})
}

// EmitPaymentDeclined emits a payment declined event.
func (r *Registry) EmitPaymentDeclined(ctx context.Context, payerID string, strategy payment.Strategy, cost types.Coins) {
	r.mu.RLock()
	hooks := r.onPaymentDeclined
	r.mu.RUnlock()

	emit(ctx, r, "OnPaymentDeclined", hooks, func(p OnPaymentDeclined) error {
		return p.OnPaymentDeclined(ctx, payerID, strategy, cost)
	})
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins never block a crafting operation for longer than the timeout.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
