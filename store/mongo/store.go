package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/crafting"
	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/journal"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
	craftingstore "github.com/xraph/crafting/store"
)

// Collection name constants.
const (
	colProjects    = "crafting_projects"
	colPreferences = "crafting_preferences"
	colJournal     = "crafting_journal"
)

// compile-time interface check
var _ craftingstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all crafting collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("crafting/mongo: migrate %s indexes: %w", col, err)
		}
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
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"owner_id": ownerID}).
		Sort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("crafting/mongo: list projects: %w", err)
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
	var m projectModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": projectID.String(), "owner_id": ownerID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, crafting.ErrProjectNotFound
		}
		return nil, fmt.Errorf("crafting/mongo: get project: %w", err)
	}
	return fromProjectModel(&m)
}

// UpsertProject replaces one project document. Sibling documents of the
// same owner are never touched.
func (s *Store) UpsertProject(ctx context.Context, p *project.Project) error {
	m := toProjectModel(p)

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID, "owner_id": m.OwnerID}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"item_id":     m.ItemID,
				"batch_size":  m.BatchSize,
				"progress_cp": m.ProgressCP,
				"updated_at":  m.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"created_at": m.CreatedAt,
			},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/mongo: upsert project: %w", err)
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, ownerID string, projectID id.ProjectID) error {
	res, err := s.mdb.NewDelete((*projectModel)(nil)).
		Filter(bson.M{"_id": projectID.String(), "owner_id": ownerID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/mongo: delete project: %w", err)
	}
	if res.DeletedCount() == 0 {
		return crafting.ErrProjectNotFound
	}
	return nil
}

// ==================== Preference Store ====================

func (s *Store) GetPreferredStrategy(ctx context.Context, ownerID string) (payment.Strategy, error) {
	var m preferenceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": ownerID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return "", nil
		}
		return "", fmt.Errorf("crafting/mongo: get preference: %w", err)
	}
	return payment.Strategy(m.Strategy), nil
}

func (s *Store) SetPreferredStrategy(ctx context.Context, ownerID string, strategy payment.Strategy) error {
	if !strategy.Valid() {
		return fmt.Errorf("%w: %q", crafting.ErrUnknownStrategy, string(strategy))
	}

	ts := time.Now().UTC()
	m := &preferenceModel{OwnerID: ownerID, Strategy: string(strategy), CreatedAt: ts, UpdatedAt: ts}

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": ownerID}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"strategy":   m.Strategy,
				"updated_at": m.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"created_at": m.CreatedAt,
			},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("crafting/mongo: set preference: %w", err)
	}
	return nil
}

// ==================== Journal Store ====================

func (s *Store) AppendEntry(ctx context.Context, e *journal.Entry) error {
	m := toJournalEntryModel(e)
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("crafting/mongo: append journal entry: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, ownerID string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	var models []journalEntryModel

	filter := bson.M{"owner_id": ownerID}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	ts := bson.M{}
	if !opts.Start.IsZero() {
		ts["$gte"] = opts.Start
	}
	if !opts.End.IsZero() {
		ts["$lt"] = opts.End
	}
	if len(ts) > 0 {
		filter["timestamp"] = ts
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("crafting/mongo: list journal: %w", err)
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
	res, err := s.mdb.NewDelete((*journalEntryModel)(nil)).
		Filter(bson.M{"timestamp": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("crafting/mongo: purge journal: %w", err)
	}
	return res.DeletedCount(), nil
}

// ==================== Helpers ====================

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colProjects: {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colPreferences: {},
		colJournal: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "kind", Value: 1}}},
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		},
	}
}
