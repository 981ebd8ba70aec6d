package payment

import (
	"errors"
	"testing"

	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/types"
)

func fiftyGoldReagent() []reagent.Reagent {
	return []reagent.Reagent{{ID: "r1", Name: "Reagents", Level: 6, Quantity: 10}}
}

func TestEveryStrategyHasHandler(t *testing.T) {
	for _, s := range Strategies() {
		if !s.Valid() {
			t.Errorf("strategy %q has no handler", s)
		}
		if _, err := ParseStrategy(string(s)); err != nil {
			t.Errorf("ParseStrategy(%q): %v", s, err)
		}
	}
	if len(handlers) != len(Strategies()) {
		t.Errorf("handlers = %d, strategies = %d", len(handlers), len(Strategies()))
	}
}

func TestParseStrategyUnknown(t *testing.T) {
	for _, s := range []string{"", "coin", "FULLCOIN", "barter"} {
		if _, err := ParseStrategy(s); !errors.Is(err, ErrUnknownStrategy) {
			t.Errorf("ParseStrategy(%q) err = %v, want ErrUnknownStrategy", s, err)
		}
	}
}

func TestResolveUnknownStrategy(t *testing.T) {
	res, err := Resolve(Strategy("barter"), types.Gold(100), nil, types.Gold(1))
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("err = %v, want ErrUnknownStrategy", err)
	}
	if res.CanPay {
		t.Error("unknown strategy must not pay")
	}
}

func TestResolveFree(t *testing.T) {
	inputs := []struct {
		available types.Coins
		reagents  []reagent.Reagent
		cost      types.Coins
	}{
		{types.NoCoins(), nil, types.Gold(1000)},
		{types.Gold(5), fiftyGoldReagent(), types.Gold(50)},
		{types.NoCoins(), nil, types.NoCoins()},
	}

	for _, in := range inputs {
		res, err := Resolve(StrategyFree, in.available, in.reagents, in.cost)
		if err != nil {
			t.Fatal(err)
		}
		if !res.CanPay || !res.RemoveCurrency.IsZero() || len(res.ReagentUpdates) != 0 {
			t.Errorf("free = %+v, want pay with nothing removed", res)
		}
	}
}

func TestResolveCurrencyOnly(t *testing.T) {
	tests := []struct {
		name      string
		available types.Coins
		cost      types.Coins
		canPay    bool
		remove    types.Coins
	}{
		{"short", types.Gold(30), types.Gold(50), false, types.NoCoins()},
		{"exact", types.Gold(50), types.Gold(50), true, types.Gold(50)},
		{"surplus", types.Gold(80), types.Gold(50), true, types.Gold(50)},
		{"zero cost", types.NoCoins(), types.NoCoins(), true, types.NoCoins()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(StrategyCurrencyOnly, tt.available, fiftyGoldReagent(), tt.cost)
			if err != nil {
				t.Fatal(err)
			}
			if res.CanPay != tt.canPay {
				t.Fatalf("CanPay = %v, want %v", res.CanPay, tt.canPay)
			}
			if !res.RemoveCurrency.Equal(tt.remove) {
				t.Errorf("RemoveCurrency = %v, want %v", res.RemoveCurrency, tt.remove)
			}
			if len(res.ReagentUpdates) != 0 {
				t.Errorf("ReagentUpdates = %+v, want none", res.ReagentUpdates)
			}
		})
	}
}

func TestResolveReagentOnly(t *testing.T) {
	res, err := Resolve(StrategyReagentOnly, types.NoCoins(), fiftyGoldReagent(), types.Gold(50))
	if err != nil {
		t.Fatal(err)
	}
	if !res.CanPay {
		t.Fatal("expected CanPay")
	}
	if !res.RemoveCurrency.IsZero() {
		t.Errorf("RemoveCurrency = %v, want zero", res.RemoveCurrency)
	}
	if len(res.ReagentUpdates) != 1 {
		t.Fatalf("updates = %d, want 1", len(res.ReagentUpdates))
	}
	u := res.ReagentUpdates[0]
	if u.ReagentID != "r1" || u.Quantity != 0 || u.Leftovers.String() != "0 gp" {
		t.Errorf("update = %+v, want r1 at quantity 0 with 0 gp", u)
	}

	res, err = Resolve(StrategyReagentOnly, types.Gold(1000), fiftyGoldReagent(), types.Gold(51))
	if err != nil {
		t.Fatal(err)
	}
	if res.CanPay || len(res.ReagentUpdates) != 0 || !res.RemoveCurrency.IsZero() {
		t.Errorf("insufficient reagents = %+v, want declined", res)
	}
}

func TestResolvePreferCurrency(t *testing.T) {
	t.Run("coins cover", func(t *testing.T) {
		res, _ := Resolve(StrategyPreferCurrency, types.Gold(60), fiftyGoldReagent(), types.Gold(50))
		if !res.CanPay || !res.RemoveCurrency.Equal(types.Gold(50)) || len(res.ReagentUpdates) != 0 {
			t.Errorf("result = %+v, want 50 gp from coins only", res)
		}
	})

	t.Run("shortfall from reagents", func(t *testing.T) {
		res, _ := Resolve(StrategyPreferCurrency, types.Gold(30), fiftyGoldReagent(), types.Gold(50))
		if !res.CanPay {
			t.Fatal("expected CanPay")
		}
		if !res.RemoveCurrency.Equal(types.Gold(30)) {
			t.Errorf("RemoveCurrency = %v, want 30 gp", res.RemoveCurrency)
		}
		if len(res.ReagentUpdates) != 1 || res.ReagentUpdates[0].Quantity != 6 {
			t.Errorf("updates = %+v, want r1 at quantity 6", res.ReagentUpdates)
		}
	})

	t.Run("combined short", func(t *testing.T) {
		res, _ := Resolve(StrategyPreferCurrency, types.Gold(30), fiftyGoldReagent(), types.Gold(81))
		if res.CanPay || len(res.ReagentUpdates) != 0 || !res.RemoveCurrency.IsZero() {
			t.Errorf("result = %+v, want declined", res)
		}
	})
}

func TestResolvePreferReagent(t *testing.T) {
	t.Run("reagents cover", func(t *testing.T) {
		res, _ := Resolve(StrategyPreferReagent, types.Gold(100), fiftyGoldReagent(), types.Gold(20))
		if !res.CanPay || !res.RemoveCurrency.IsZero() {
			t.Fatalf("result = %+v, want reagents only", res)
		}
		if len(res.ReagentUpdates) != 1 || res.ReagentUpdates[0].Quantity != 6 {
			t.Errorf("updates = %+v, want r1 at quantity 6", res.ReagentUpdates)
		}
	})

	t.Run("remainder from coins", func(t *testing.T) {
		res, _ := Resolve(StrategyPreferReagent, types.Gold(40), fiftyGoldReagent(), types.Gold(80))
		if !res.CanPay {
			t.Fatal("expected CanPay")
		}
		if !res.RemoveCurrency.Equal(types.Gold(30)) {
			t.Errorf("RemoveCurrency = %v, want 30 gp", res.RemoveCurrency)
		}
		if len(res.ReagentUpdates) != 1 || res.ReagentUpdates[0].Quantity != 0 {
			t.Errorf("updates = %+v, want r1 emptied", res.ReagentUpdates)
		}
	})

	t.Run("remainder too large", func(t *testing.T) {
		res, _ := Resolve(StrategyPreferReagent, types.Gold(10), fiftyGoldReagent(), types.Gold(80))
		if res.CanPay || len(res.ReagentUpdates) != 0 || !res.RemoveCurrency.IsZero() {
			t.Errorf("result = %+v, want declined", res)
		}
	})

	t.Run("no reagents", func(t *testing.T) {
		res, _ := Resolve(StrategyPreferReagent, types.Gold(10), nil, types.Gold(8))
		if !res.CanPay || !res.RemoveCurrency.Equal(types.Gold(8)) || len(res.ReagentUpdates) != 0 {
			t.Errorf("result = %+v, want 8 gp from coins", res)
		}
	})
}

// Whatever the strategy, a paid result covers exactly the cost.
func TestResolveCoversCost(t *testing.T) {
	reagents := []reagent.Reagent{
		{ID: "a", Level: 2, Quantity: 13, Leftovers: types.Copper(40)},
		{ID: "b", Level: 6, Quantity: 10},
		{ID: "c", Level: 4, Quantity: 7},
	}
	available := types.Gold(45)
	cost := types.Gold(71).Add(types.Silver(3))

	for _, s := range []Strategy{StrategyPreferCurrency, StrategyPreferReagent} {
		res, err := Resolve(s, available, reagents, cost)
		if err != nil {
			t.Fatal(err)
		}
		if !res.CanPay {
			t.Fatalf("%s: expected CanPay", s)
		}

		after := make([]reagent.Reagent, len(reagents))
		copy(after, reagents)
		for _, u := range res.ReagentUpdates {
			for i := range after {
				if after[i].ID == u.ReagentID {
					after[i] = u.Apply(after[i])
				}
			}
		}

		spent := reagent.TotalValue(reagents).Subtract(reagent.TotalValue(after)).Add(res.RemoveCurrency)
		if !spent.Equal(cost) {
			t.Errorf("%s: spent %v, want %v", s, spent, cost)
		}
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	reagents := []reagent.Reagent{
		{ID: "b", Level: 9, Quantity: 10},
		{ID: "a", Level: 1, Quantity: 10},
	}

	if _, err := Resolve(StrategyReagentOnly, types.NoCoins(), reagents, types.Gold(10)); err != nil {
		t.Fatal(err)
	}
	if reagents[0].ID != "b" || reagents[0].Quantity != 10 || reagents[1].Quantity != 10 {
		t.Errorf("reagents mutated: %+v", reagents)
	}
}
