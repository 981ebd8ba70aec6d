// Package preference stores each owner's preferred payment strategy.
package preference

import (
	"context"

	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/types"
)

// Preference is the strategy an owner last chose to pay with.
type Preference struct {
	types.Entity
	OwnerID  string           `json:"owner_id"`
	Strategy payment.Strategy `json:"strategy"`
}

// Store reads and writes preferences. GetPreferredStrategy returns an empty
// strategy and no error when the owner has never stored one.
type Store interface {
	GetPreferredStrategy(ctx context.Context, ownerID string) (payment.Strategy, error)
	SetPreferredStrategy(ctx context.Context, ownerID string, strategy payment.Strategy) error
}
