package reagent

import (
	"testing"

	"github.com/xraph/crafting/types"
)

func TestBulkValue(t *testing.T) {
	tests := []struct {
		level int
		want  types.Coins
	}{
		{-1, types.NoCoins()},
		{0, types.Gold(2)},
		{1, types.Gold(4)},
		{6, types.Gold(50)},
		{19, types.Gold(7500)},
		{20, types.Gold(10000)},
		{21, types.NoCoins()},
	}

	for _, tt := range tests {
		if got := BulkValue(tt.level); !got.Equal(tt.want) {
			t.Errorf("BulkValue(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestUnitValue(t *testing.T) {
	if got := UnitValue(6); !got.Equal(types.Gold(5)) {
		t.Errorf("UnitValue(6) = %v, want 5 gp", got)
	}
	if got := UnitValue(0); !got.Equal(types.Silver(2)) {
		t.Errorf("UnitValue(0) = %v, want 2 sp", got)
	}
	if got := UnitValue(-3); !got.IsZero() {
		t.Errorf("UnitValue(-3) = %v, want zero", got)
	}
}

func TestReagentBulk(t *testing.T) {
	r := Reagent{Quantity: 14}
	if r.Bulk() != 1 || r.LightBulk() != 4 {
		t.Errorf("quantity 14 = %d bulk %d light, want 1 and 4", r.Bulk(), r.LightBulk())
	}
}

func TestTotalValue(t *testing.T) {
	reagents := []Reagent{
		{ID: "a", Level: 6, Quantity: 10},
		{ID: "b", Level: 0, Quantity: 3, Leftovers: types.Copper(7)},
		{ID: "c", Level: 25, Quantity: 40, Leftovers: types.Silver(1)},
	}

	want := types.Gold(50).Add(types.Silver(6)).Add(types.Copper(7)).Add(types.Silver(1))
	if got := TotalValue(reagents); !got.Equal(want) {
		t.Errorf("TotalValue = %v, want %v", got, want)
	}

	if got := TotalValue(nil); !got.IsZero() {
		t.Errorf("TotalValue(nil) = %v, want zero", got)
	}
}

func TestPack(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		target    types.Coins
		quantity  int64
		leftovers types.Coins
	}{
		{"exact", 6, types.Gold(50), 10, types.NoCoins()},
		{"remainder", 6, types.Gold(52), 10, types.Gold(2)},
		{"below one unit", 6, types.Gold(3), 0, types.Gold(3)},
		{"zero target", 6, types.NoCoins(), 0, types.NoCoins()},
		{"invalid level", -1, types.Gold(9), 0, types.Gold(9)},
		{"high level", 20, types.Gold(2500), 2, types.Gold(500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quantity, leftovers := Pack(tt.level, tt.target)
			if quantity != tt.quantity {
				t.Errorf("quantity = %d, want %d", quantity, tt.quantity)
			}
			if !leftovers.Equal(tt.leftovers) {
				t.Errorf("leftovers = %v, want %v", leftovers, tt.leftovers)
			}
		})
	}
}

func TestPackInvariant(t *testing.T) {
	for level := -1; level <= 21; level++ {
		unit := UnitValue(level)
		for _, cp := range []int64{0, 1, 99, 1234, 57_891, 1_000_003} {
			target := types.Copper(cp)
			quantity, leftovers := Pack(level, target)

			if got := unit.Scale(quantity).Add(leftovers); !got.Equal(target) {
				t.Fatalf("level %d target %v: repacked to %v", level, target, got)
			}
			if unit.IsPositive() && !leftovers.LessThan(unit) {
				t.Fatalf("level %d target %v: leftovers %v not below unit %v", level, target, leftovers, unit)
			}
		}
	}
}

func TestFundSingleReagentExact(t *testing.T) {
	reagents := []Reagent{{ID: "r1", Level: 6, Quantity: 10}}

	res := Fund(reagents, types.Gold(50), true)
	if !res.CanPay {
		t.Fatal("expected CanPay")
	}
	if len(res.Updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(res.Updates))
	}

	u := res.Updates[0]
	if u.ReagentID != "r1" || u.Quantity != 0 || !u.Leftovers.IsZero() {
		t.Errorf("update = %+v, want r1 emptied", u)
	}
	if u.Leftovers.String() != "0 gp" {
		t.Errorf("leftovers = %q, want 0 gp", u.Leftovers.String())
	}
}

func TestFundCheapestFirst(t *testing.T) {
	reagents := []Reagent{
		{ID: "high", Level: 9, Quantity: 10},
		{ID: "low", Level: 2, Quantity: 10},
	}

	// Level 2 is worth 7 gp per Bulk, level 9 is 150 gp.
	res := Fund(reagents, types.Gold(10), true)
	if !res.CanPay {
		t.Fatal("expected CanPay")
	}
	if len(res.Updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(res.Updates))
	}
	if res.Updates[0].ReagentID != "low" || res.Updates[0].Quantity != 0 {
		t.Errorf("first update = %+v, want low emptied", res.Updates[0])
	}

	// 150 gp - 3 gp = 147 gp = 9 units of 15 gp with 12 gp left.
	high := res.Updates[1]
	if high.ReagentID != "high" || high.Quantity != 9 || !high.Leftovers.Equal(types.Gold(12)) {
		t.Errorf("second update = %+v, want high at 9 with 12 gp", high)
	}

	if reagents[0].ID != "high" {
		t.Error("Fund reordered the caller's slice")
	}
}

func TestFundStopsEarly(t *testing.T) {
	reagents := []Reagent{
		{ID: "a", Level: 6, Quantity: 10},
		{ID: "b", Level: 7, Quantity: 10},
	}

	res := Fund(reagents, types.Gold(20), true)
	if len(res.Updates) != 1 || res.Updates[0].ReagentID != "a" {
		t.Fatalf("updates = %+v, want only a", res.Updates)
	}
	if res.Updates[0].Quantity != 6 {
		t.Errorf("a quantity = %d, want 6", res.Updates[0].Quantity)
	}
}

func TestFundConsumesExactlyCost(t *testing.T) {
	reagents := []Reagent{
		{ID: "a", Level: 3, Quantity: 17, Leftovers: types.Copper(33)},
		{ID: "b", Level: 5, Quantity: 4},
		{ID: "c", Level: 1, Quantity: 25},
	}
	cost := types.Gold(31).Add(types.Copper(5))

	res := Fund(reagents, cost, true)
	if !res.CanPay {
		t.Fatal("expected CanPay")
	}

	after := make([]Reagent, len(reagents))
	copy(after, reagents)
	for _, u := range res.Updates {
		for i := range after {
			if after[i].ID == u.ReagentID {
				after[i] = u.Apply(after[i])
			}
		}
	}

	consumed := TotalValue(reagents).Subtract(TotalValue(after))
	if !consumed.Equal(cost) {
		t.Errorf("consumed %v, want %v", consumed, cost)
	}
}

func TestFundInsufficient(t *testing.T) {
	reagents := []Reagent{{ID: "a", Level: 6, Quantity: 5}}

	full := Fund(reagents, types.Gold(50), true)
	if full.CanPay || len(full.Updates) != 0 {
		t.Errorf("full commitment = %+v, want failure with no updates", full)
	}

	partial := Fund(reagents, types.Gold(50), false)
	if !partial.CanPay {
		t.Fatal("partial funding should always succeed")
	}
	if len(partial.Updates) != 1 || partial.Updates[0].Quantity != 0 {
		t.Errorf("partial updates = %+v, want a emptied", partial.Updates)
	}
}

func TestFundNonPositiveCost(t *testing.T) {
	reagents := []Reagent{{ID: "a", Level: 6, Quantity: 5}}

	for _, cost := range []types.Coins{types.NoCoins(), types.Gold(-3)} {
		res := Fund(reagents, cost, true)
		if !res.CanPay || len(res.Updates) != 0 {
			t.Errorf("Fund(%v) = %+v, want success with no updates", cost, res)
		}
	}
}
