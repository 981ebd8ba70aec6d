package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
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

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("crafting/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("crafting/postgres: migration failed: %w", err)
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
	err := s.pg.NewSelect(&models).
		Where("owner_id = $1", ownerID).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("crafting/postgres: list projects: %w", err)
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
	err := s.pg.NewSelect(m).
		Where("id = $1", projectID.String()).
		Where("owner_id = $2", ownerID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, crafting.ErrProjectNotFound
		}
		return nil, fmt.Errorf("crafting/postgres: get project: %w", err)
	}
	return fromProjectModel(m)
}

// UpsertProject writes one project row. Sibling rows of the same owner are
// never touched.
func (s *Store) UpsertProject(ctx context.Context, p *project.Project) error {
	m := toProjectModel(p)
	_, err := s.pg.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("item_id = EXCLUDED.item_id").
		Set("batch_size = EXCLUDED.batch_size").
		Set("progress_cp = EXCLUDED.progress_cp").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/postgres: upsert project: %w", err)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, ownerID string, projectID id.ProjectID) error {
	res, err := s.pg.NewDelete((*projectModel)(nil)).
		Where("id = $1", projectID.String()).
		Where("owner_id = $2", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/postgres: delete project: %w", err)
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
	err := s.pg.NewSelect(m).
		Where("owner_id = $1", ownerID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("crafting/postgres: get preference: %w", err)
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
	_, err := s.pg.NewInsert(m).
		OnConflict("(owner_id) DO UPDATE").
		Set("strategy = EXCLUDED.strategy").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/postgres: set preference: %w", err)
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) AppendEntry(ctx context.Context, e *journal.Entry) error {
	m := toJournalEntryModel(e)
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("crafting/postgres: append journal entry: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, ownerID string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	var models []journalEntryModel
	q := s.pg.NewSelect(&models).Where("owner_id = $1", ownerID)

	argIdx := 1
	if opts.Kind != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("kind = $%d", argIdx), string(opts.Kind))
	}
	if !opts.Start.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("timestamp >= $%d", argIdx), opts.Start)
	}
	if !opts.End.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("timestamp < $%d", argIdx), opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("timestamp ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("crafting/postgres: list journal: %w", err)
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
	res, err := s.pg.NewDelete((*journalEntryModel)(nil)).
		Where("timestamp < $1", before).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("crafting/postgres: purge journal: %w", err)
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
