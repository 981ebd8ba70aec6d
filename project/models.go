package project

import (
	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/types"
)

// Project tracks value accumulated toward crafting a batch of one item.
type Project struct {
	types.Entity
	ID        id.ProjectID `json:"id"`
	OwnerID   string       `json:"owner_id"`
	ItemID    string       `json:"item_id"`
	BatchSize int          `json:"batch_size"`
	Progress  types.Coins  `json:"progress"`
}

// Remaining is how much value is still needed to reach cost.
func (p *Project) Remaining(cost types.Coins) types.Coins {
	return types.Difference(cost, p.Progress).Max(types.NoCoins())
}

// Complete reports whether progress has reached cost.
func (p *Project) Complete(cost types.Coins) bool {
	return !p.Progress.LessThan(cost)
}

// View is the display shape of a project for listings.
type View struct {
	ProjectID        id.ProjectID `json:"project_id"`
	ItemID           string       `json:"item_id"`
	Image            string       `json:"image,omitempty"`
	Name             string       `json:"name"`
	BatchSize        int          `json:"batch_size"`
	Cost             types.Coins  `json:"cost"`
	CurrentProgress  types.Coins  `json:"current_progress"`
	ProgressFraction float64      `json:"progress_fraction"`
}

// Fraction returns progress over cost clamped to [0, 1]. A zero cost counts
// as fully progressed.
func Fraction(progress, cost types.Coins) float64 {
	if !cost.IsPositive() {
		return 1
	}
	f := float64(progress.Copper) / float64(cost.Copper)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
