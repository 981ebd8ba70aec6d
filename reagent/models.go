package reagent

import "github.com/xraph/crafting/types"

// LightUnitsPerBulk is the number of quantity units packed into one Bulk.
const LightUnitsPerBulk = 10

// Reagent is an inventory entry that stores packed value usable as an
// alternate payment source. Quantity encodes whole Bulk in the tens digit
// and light bulk in the ones digit, so 14 is 1 Bulk and 4 light.
type Reagent struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	Level     int         `json:"level"`
	Quantity  int64       `json:"quantity"`
	Leftovers types.Coins `json:"leftovers"`
}

// Bulk returns the whole Bulk units.
func (r Reagent) Bulk() int64 { return r.Quantity / LightUnitsPerBulk }

// LightBulk returns the light bulk units beyond whole Bulk.
func (r Reagent) LightBulk() int64 { return r.Quantity % LightUnitsPerBulk }

// Value returns the packed value plus leftovers.
func (r Reagent) Value() types.Coins {
	return UnitValue(r.Level).Scale(r.Quantity).Add(r.Leftovers)
}

// Update is the new packed state of one reagent after paying from it.
type Update struct {
	ReagentID string      `json:"reagent_id"`
	Quantity  int64       `json:"quantity"`
	Leftovers types.Coins `json:"leftovers"`
}

// Apply returns r with the update's quantity and leftovers.
func (u Update) Apply(r Reagent) Reagent {
	r.Quantity = u.Quantity
	r.Leftovers = u.Leftovers
	return r
}

// FundResult is the outcome of Fund.
type FundResult struct {
	CanPay  bool     `json:"can_pay"`
	Updates []Update `json:"updates"`
}
