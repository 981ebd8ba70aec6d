package sqlite

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/crafting/announce"
	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/journal"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/types"
)

// ==================== Project models ====================

type projectModel struct {
	grove.BaseModel `grove:"table:crafting_projects"`

	ID         string    `grove:"id,pk"`
	OwnerID    string    `grove:"owner_id"`
	ItemID     string    `grove:"item_id"`
	BatchSize  int       `grove:"batch_size"`
	ProgressCP int64     `grove:"progress_cp"`
	CreatedAt  time.Time `grove:"created_at"`
	UpdatedAt  time.Time `grove:"updated_at"`
}

func toProjectModel(p *project.Project) *projectModel {
	return &projectModel{
		ID:         p.ID.String(),
		OwnerID:    p.OwnerID,
		ItemID:     p.ItemID,
		BatchSize:  p.BatchSize,
		ProgressCP: p.Progress.Copper,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromProjectModel(m *projectModel) (*project.Project, error) {
	projectID, err := id.ParseProjectID(m.ID)
	if err != nil {
		return nil, err
	}

	return &project.Project{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        projectID,
		OwnerID:   m.OwnerID,
		ItemID:    m.ItemID,
		BatchSize: m.BatchSize,
		Progress:  types.Copper(m.ProgressCP),
	}, nil
}

// ==================== Preference models ====================

type preferenceModel struct {
	grove.BaseModel `grove:"table:crafting_preferences"`

	OwnerID   string    `grove:"owner_id,pk"`
	Strategy  string    `grove:"strategy"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

// ==================== Journal models ====================

type journalEntryModel struct {
	grove.BaseModel `grove:"table:crafting_journal"`

	ID        string    `grove:"id,pk"`
	OwnerID   string    `grove:"owner_id"`
	Speaker   string    `grove:"speaker"`
	Kind      string    `grove:"kind"`
	Message   string    `grove:"message"`
	Timestamp time.Time `grove:"timestamp"`
}

func toJournalEntryModel(e *journal.Entry) *journalEntryModel {
	return &journalEntryModel{
		ID:        e.ID.String(),
		OwnerID:   e.OwnerID,
		Speaker:   e.Speaker,
		Kind:      string(e.Kind),
		Message:   e.Message,
		Timestamp: e.Timestamp,
	}
}

func fromJournalEntryModel(m *journalEntryModel) (*journal.Entry, error) {
	entryID, err := id.ParseJournalEntryID(m.ID)
	if err != nil {
		return nil, err
	}

	return &journal.Entry{
		ID:        entryID,
		OwnerID:   m.OwnerID,
		Speaker:   m.Speaker,
		Kind:      announce.Kind(m.Kind),
		Message:   m.Message,
		Timestamp: m.Timestamp,
	}, nil
}
