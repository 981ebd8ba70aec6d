package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/crafting"
	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/journal"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
	craftingstore "github.com/xraph/crafting/store"
)

// compile-time interface check
var _ craftingstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("crafting/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("crafting/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Project Store ====================

func (s *Store) ListProjects(ctx context.Context, ownerID string) ([]*project.Project, error) {
	var models []projectModel
	err := s.sdb.NewSelect(&models).
		Where("owner_id = ?", ownerID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("crafting/sqlite: list projects: %w", err)
	}

	result := make([]*project.Project, len(models))
	for i := range models {
		p, err := fromProjectModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) GetProject(ctx context.Context, ownerID string, projectID id.ProjectID) (*project.Project, error) {
	m := new(projectModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", projectID.String()).
		Where("owner_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, crafting.ErrProjectNotFound
		}
		return nil, fmt.Errorf("crafting/sqlite: get project: %w", err)
	}
	return fromProjectModel(m)
}

// UpsertProject writes one project row. Sibling rows of the same owner are
// never touched.
func (s *Store) UpsertProject(ctx context.Context, p *project.Project) error {
	m := toProjectModel(p)
	_, err := s.sdb.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("item_id = EXCLUDED.item_id").
		Set("batch_size = EXCLUDED.batch_size").
		Set("progress_cp = EXCLUDED.progress_cp").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/sqlite: upsert project: %w", err)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, ownerID string, projectID id.ProjectID) error {
	res, err := s.sdb.NewDelete((*projectModel)(nil)).
		Where("id = ?", projectID.String()).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/sqlite: delete project: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return crafting.ErrProjectNotFound
	}
	return nil
}

// ==================== Preference Store ====================

func (s *Store) GetPreferredStrategy(ctx context.Context, ownerID string) (payment.Strategy, error) {
	m := new(preferenceModel)
	err := s.sdb.NewSelect(m).
		Where("owner_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("crafting/sqlite: get preference: %w", err)
	}
	return payment.Strategy(m.Strategy), nil
}

func (s *Store) SetPreferredStrategy(ctx context.Context, ownerID string, strategy payment.Strategy) error {
	if !strategy.Valid() {
		return fmt.Errorf("%w: %q", crafting.ErrUnknownStrategy, string(strategy))
	}

	ts := now()
	m := &preferenceModel{
		OwnerID:   ownerID,
		Strategy:  string(strategy),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	_, err := s.sdb.NewInsert(m).
		OnConflict("(owner_id) DO UPDATE").
		Set("strategy = EXCLUDED.strategy").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/sqlite: set preference: %w", err)
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) AppendEntry(ctx context.Context, e *journal.Entry) error {
	m := toJournalEntryModel(e)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("crafting/sqlite: append journal entry: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, ownerID string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	var models []journalEntryModel
	q := s.sdb.NewSelect(&models).Where("owner_id = ?", ownerID)

	if opts.Kind != "" {
		q = q.Where("kind = ?", string(opts.Kind))
	}
	if !opts.Start.IsZero() {
		q = q.Where("timestamp >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("timestamp < ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("crafting/sqlite: list journal: %w", err)
	}

	result := make([]*journal.Entry, len(models))
	for i := range models {
		e, err := fromJournalEntryModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) PurgeEntries(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*journalEntryModel)(nil)).
		Where("timestamp < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("crafting/sqlite: purge journal: %w", err)
	}
	return res.RowsAffected()
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
