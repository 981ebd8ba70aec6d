package journal

import (
	"context"
	"time"

	"github.com/xraph/crafting/announce"
)

type Store interface {
	AppendEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, ownerID string, opts QueryOpts) ([]*Entry, error)
	PurgeEntries(ctx context.Context, before time.Time) (int64, error)
}

// QueryOpts filters ListEntries. Entries come back oldest first.
type QueryOpts struct {
	Kind   announce.Kind
	Start  time.Time
	End    time.Time
	Limit  int
	Offset int
}
