package journal

import (
	"context"
	"time"

	"github.com/xraph/crafting/announce"
	"github.com/xraph/crafting/id"
)

// Sink records every announcement into a Store.
type Sink struct {
	store Store
	now   func() time.Time
}

var _ announce.Sink = (*Sink)(nil)

// NewSink returns a Sink writing to s.
func NewSink(s Store) *Sink {
	return &Sink{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Announce appends a as a new entry.
func (s *Sink) Announce(ctx context.Context, a announce.Announcement) error {
	return s.store.AppendEntry(ctx, &Entry{
		ID:        id.NewJournalEntryID(),
		OwnerID:   a.OwnerID,
		Speaker:   a.Speaker,
		Kind:      a.Kind,
		Message:   a.Message,
		Timestamp: s.now(),
	})
}
