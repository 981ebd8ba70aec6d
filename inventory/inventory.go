// Package inventory defines the owner inventory operations crafting needs.
package inventory

import (
	"context"
	"errors"

	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/types"
)

// ErrOwnerNotFound is returned for an unknown owner.
var ErrOwnerNotFound = errors.New("inventory: owner not found")

// GrantOutcome is the result of adding crafted items to an owner.
type GrantOutcome int

const (
	// Granted means the items were added.
	Granted GrantOutcome = iota
	// Failed means the host refused or could not add the items.
	Failed
	// PermissionLacking means the acting user may not modify the owner.
	PermissionLacking
)

func (o GrantOutcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case Failed:
		return "failed"
	case PermissionLacking:
		return "permission_lacking"
	default:
		return "unknown"
	}
}

// Inventory reads and mutates an owner's coins, reagents and items.
type Inventory interface {
	DisplayName(ctx context.Context, ownerID string) (string, error)
	Coins(ctx context.Context, ownerID string) (types.Coins, error)
	Reagents(ctx context.Context, ownerID string) ([]reagent.Reagent, error)
	RemoveCoins(ctx context.Context, ownerID string, amount types.Coins) error
	ApplyReagentUpdates(ctx context.Context, ownerID string, updates []reagent.Update) error
	GrantItem(ctx context.Context, ownerID, itemID string, quantity int) (GrantOutcome, error)
}
