package crafting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/crafting/announce"
	"github.com/xraph/crafting/catalog"
	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/journal"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/plugin"
	"github.com/xraph/crafting/store"
)

// Engine runs the crafting project ledger.
type Engine struct {
	store     store.Store
	catalog   catalog.Catalog
	inventory inventory.Inventory
	plugins   *plugin.Registry
	logger    *slog.Logger

	sink     announce.Sink
	extra    []announce.Sink
	notifier announce.Notifier
	printer  announce.Localizer

	defaultStrategy payment.Strategy
	locks           *ownerLocks
}

// New creates a new Engine backed by s. Catalog and inventory are supplied
// with WithCatalog and WithInventory.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:           s,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		notifier:        announce.Discard,
		printer:         announce.DefaultPrinter(),
		defaultStrategy: payment.DefaultStrategy,
		locks:           newOwnerLocks(),
	}

	for _, opt := range opts {
		opt(e)
	}

	sinks := append([]announce.Sink{journal.NewSink(s)}, e.extra...)
	e.sink = announce.Multi(sinks...)

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithPluginTimeout bounds how long a single plugin hook may run.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.plugins.WithTimeout(d)
	}
}

// WithDefaultStrategy sets the strategy used for owners without a stored
// preference. Unknown strategies are ignored.
func WithDefaultStrategy(s payment.Strategy) Option {
	return func(e *Engine) {
		if s.Valid() {
			e.defaultStrategy = s
		}
	}
}

// WithAnnouncer adds a sink that receives every announcement alongside
// the journal.
func WithAnnouncer(s announce.Sink) Option {
	return func(e *Engine) {
		e.extra = append(e.extra, s)
	}
}

// WithNotifier sets where user notices are delivered.
func WithNotifier(n announce.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithCatalog sets the item catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithInventory sets the owner inventory.
func WithInventory(inv inventory.Inventory) Option {
	return func(e *Engine) {
		e.inventory = inv
	}
}

// WithPrinter sets the message printer used to render announcements.
func WithPrinter(p announce.Localizer) Option {
	return func(e *Engine) {
		e.printer = p
	}
}

// Start migrates the store and initialises plugins.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.configured(); err != nil {
		return err
	}

	if err := e.store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	e.plugins.EmitInit(ctx, e)

	e.logger.Info("crafting engine started",
		"default_strategy", e.defaultStrategy,
		"plugins", e.plugins.Count(),
	)

	return nil
}

// Stop shuts down plugins and closes the store.
func (e *Engine) Stop(ctx context.Context) error {
	e.plugins.EmitShutdown(ctx)
	return e.store.Close()
}

// Store returns the underlying store.
func (e *Engine) Store() store.Store { return e.store }

// Plugins returns the plugin registry.
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

func (e *Engine) configured() error {
	var errs MultiError
	if e.store == nil {
		errs.Add(ValidationError{Field: "store", Message: "not configured"})
	}
	if e.catalog == nil {
		errs.Add(ValidationError{Field: "catalog", Message: "not configured"})
	}
	if e.inventory == nil {
		errs.Add(ValidationError{Field: "inventory", Message: "not configured"})
	}
	if errs.HasErrors() {
		return fmt.Errorf("%w: %w", ErrNotConfigured, errs)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Preferences
// ──────────────────────────────────────────────────

// PreferredStrategy returns the owner's stored payment strategy, or the
// engine default when none is stored.
func (e *Engine) PreferredStrategy(ctx context.Context, ownerID string) (payment.Strategy, error) {
	if ownerID == "" {
		return "", e.invalid("PreferredStrategy", "owner_id", "missing owner")
	}

	s, err := e.store.GetPreferredStrategy(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if !s.Valid() {
		return e.defaultStrategy, nil
	}
	return s, nil
}

// SetPreferredStrategy stores the owner's payment strategy.
func (e *Engine) SetPreferredStrategy(ctx context.Context, ownerID string, s payment.Strategy) error {
	if ownerID == "" {
		return e.invalid("SetPreferredStrategy", "owner_id", "missing owner")
	}
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}
	return e.store.SetPreferredStrategy(ctx, ownerID, s)
}

// strategyFor validates requested, falling back to the payer's preference
// when it is empty.
func (e *Engine) strategyFor(ctx context.Context, payerID string, requested payment.Strategy) (payment.Strategy, error) {
	if requested == "" {
		return e.PreferredStrategy(ctx, payerID)
	}
	if !requested.Valid() {
		e.notify(ctx, payerID, announce.LevelWarning, announce.MsgUnknownStrategy, string(requested))
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, string(requested))
	}
	return requested, nil
}

// ──────────────────────────────────────────────────
// Journal
// ──────────────────────────────────────────────────

// Journal returns the owner's recorded announcements.
func (e *Engine) Journal(ctx context.Context, ownerID string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	if ownerID == "" {
		return nil, e.invalid("Journal", "owner_id", "missing owner")
	}
	return e.store.ListEntries(ctx, ownerID, opts)
}

// PurgeJournal removes journal entries recorded before the cutoff for all
// owners and returns how many were removed.
func (e *Engine) PurgeJournal(ctx context.Context, before time.Time) (int64, error) {
	n, err := e.store.PurgeEntries(ctx, before)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.logger.Info("crafting: journal purged", "before", before, "removed", n)
	}
	return n, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// invalid logs a caller defect and returns a ValidationError.
func (e *Engine) invalid(op, field, msg string) error {
	e.logger.Warn("crafting: invalid input",
		"op", op,
		"field", field,
		"reason", msg,
	)
	return ValidationError{Field: field, Message: msg}
}

func (e *Engine) lookup(ctx context.Context, itemID string) (*catalog.Item, error) {
	item, err := e.catalog.Lookup(ctx, itemID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			e.logger.Warn("crafting: item lookup failed", "item_id", itemID, "error", err)
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return nil, err
	}
	return item, nil
}

func (e *Engine) displayName(ctx context.Context, ownerID string) string {
	name, err := e.inventory.DisplayName(ctx, ownerID)
	if err != nil || name == "" {
		return ownerID
	}
	return name
}

func (e *Engine) notify(ctx context.Context, recipientID string, level announce.Level, key string, args ...any) {
	n := announce.Notice{
		RecipientID: recipientID,
		Level:       level,
		Key:         key,
		Message:     e.printer.Sprintf(key, args...),
	}
	if err := e.notifier.Notify(ctx, n); err != nil {
		e.logger.Warn("crafting: notice delivery failed",
			"recipient", recipientID,
			"key", key,
			"error", err,
		)
	}
}

func (e *Engine) announce(ctx context.Context, ownerID, speaker string, kind announce.Kind, message string) {
	a := announce.Announcement{
		OwnerID: ownerID,
		Speaker: speaker,
		Kind:    kind,
		Message: message,
	}
	if err := e.sink.Announce(ctx, a); err != nil {
		e.logger.Warn("crafting: announcement failed",
			"owner_id", ownerID,
			"kind", kind,
			"error", err,
		)
	}
}

func (e *Engine) projectNotFound(ctx context.Context, recipientID, ownerID string, projectID id.ProjectID, key string) error {
	e.notify(ctx, recipientID, announce.LevelError, key, e.displayName(ctx, ownerID), projectID.String())
	return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
}
