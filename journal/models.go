// Package journal persists announcements as an append-only log per owner.
package journal

import (
	"time"

	"github.com/xraph/crafting/announce"
	"github.com/xraph/crafting/id"
)

// Entry is one announcement in an owner's crafting log.
type Entry struct {
	ID        id.JournalEntryID `json:"id"`
	OwnerID   string            `json:"owner_id"`
	Speaker   string            `json:"speaker"`
	Kind      announce.Kind     `json:"kind"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
}
