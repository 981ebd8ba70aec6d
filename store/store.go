package store

import (
	"context"
	"time"

	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/journal"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
)

// Store is the unified storage interface for all crafting records.
// Methods are declared explicitly rather than by embedding so the
// backends share one flat method set.
type Store interface {
	// Project methods
	ListProjects(ctx context.Context, ownerID string) ([]*project.Project, error)
	GetProject(ctx context.Context, ownerID string, projectID id.ProjectID) (*project.Project, error)
	UpsertProject(ctx context.Context, p *project.Project) error
	DeleteProject(ctx context.Context, ownerID string, projectID id.ProjectID) error

	// Preference methods
	GetPreferredStrategy(ctx context.Context, ownerID string) (payment.Strategy, error)
	SetPreferredStrategy(ctx context.Context, ownerID string, strategy payment.Strategy) error

	// Journal methods
	AppendEntry(ctx context.Context, e *journal.Entry) error
	ListEntries(ctx context.Context, ownerID string, opts journal.QueryOpts) ([]*journal.Entry, error)
	PurgeEntries(ctx context.Context, before time.Time) (int64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
