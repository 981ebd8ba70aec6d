// Package reagent values and spends reagents, the in-kind resource players
// can pay crafting costs with.
package reagent

import (
	"cmp"
	"slices"

	"github.com/xraph/crafting/types"
)

// TotalValue sums the packed value and leftovers of every reagent.
func TotalValue(reagents []Reagent) types.Coins {
	var total types.Coins
	for _, r := range reagents {
		total = total.Add(r.Value())
	}
	return total
}

// Pack re-expresses target as whole quantity units at level plus the
// remainder. An invalid level packs nothing and keeps all value as
// leftovers.
func Pack(level int, target types.Coins) (int64, types.Coins) {
	unit := UnitValue(level)
	if !unit.IsPositive() || !target.IsPositive() {
		return 0, target
	}

	quantity := target.Copper / unit.Copper
	return quantity, target.Subtract(unit.Scale(quantity))
}

// Fund spends reagents to cover cost, cheapest level first. With
// fullCommitment the call fails without updates when the reagents cannot
// cover the whole cost. Without it the call always succeeds and returns
// whatever it managed to take; the caller funds the rest.
func Fund(reagents []Reagent, cost types.Coins, fullCommitment bool) FundResult {
	if !cost.IsPositive() {
		return FundResult{CanPay: true, Updates: []Update{}}
	}

	if fullCommitment && TotalValue(reagents).LessThan(cost) {
		return FundResult{CanPay: false, Updates: []Update{}}
	}

	ordered := slices.Clone(reagents)
	slices.SortStableFunc(ordered, func(a, b Reagent) int {
		return cmp.Compare(a.Level, b.Level)
	})

	updates := make([]Update, 0, len(ordered))
	remaining := cost
	for _, r := range ordered {
		if !remaining.IsPositive() {
			break
		}

		value := r.Value()
		take := value.Min(remaining)
		quantity, leftovers := Pack(r.Level, value.Subtract(take))
		remaining = remaining.Subtract(take)

		updates = append(updates, Update{
			ReagentID: r.ID,
			Quantity:  quantity,
			Leftovers: leftovers,
		})
	}

	if fullCommitment && remaining.IsPositive() {
		return FundResult{CanPay: false, Updates: []Update{}}
	}

	return FundResult{CanPay: true, Updates: updates}
}
