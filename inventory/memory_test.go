package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/types"
)

func TestMemoryCoins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Put(Actor{ID: "pc", Name: "Ezren", Coins: types.Gold(10)})

	if err := m.RemoveCoins(ctx, "pc", types.Gold(4)); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Coins(ctx, "pc")
	if !got.Equal(types.Gold(6)) {
		t.Errorf("coins = %v, want 6 gp", got)
	}

	if err := m.RemoveCoins(ctx, "pc", types.Gold(7)); err == nil {
		t.Error("expected overdraw error")
	}

	if _, err := m.Coins(ctx, "nobody"); !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("err = %v, want ErrOwnerNotFound", err)
	}
}

func TestMemoryReagentUpdates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Put(Actor{ID: "pc", Reagents: []reagent.Reagent{{ID: "r1", Level: 6, Quantity: 10}}})

	err := m.ApplyReagentUpdates(ctx, "pc", []reagent.Update{{ReagentID: "r1", Quantity: 3, Leftovers: types.Silver(2)}})
	if err != nil {
		t.Fatal(err)
	}

	rs, _ := m.Reagents(ctx, "pc")
	if rs[0].Quantity != 3 || !rs[0].Leftovers.Equal(types.Silver(2)) {
		t.Errorf("reagent = %+v", rs[0])
	}

	if err := m.ApplyReagentUpdates(ctx, "pc", []reagent.Update{{ReagentID: "nope"}}); err == nil {
		t.Error("expected unknown reagent error")
	}
}

func TestMemoryGrant(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Put(Actor{ID: "pc"})

	out, err := m.GrantItem(ctx, "pc", "potion", 2)
	if err != nil || out != Granted {
		t.Fatalf("GrantItem = %v, %v", out, err)
	}

	m.SetGrantOutcome("pc", PermissionLacking)
	out, _ = m.GrantItem(ctx, "pc", "potion", 2)
	if out != PermissionLacking {
		t.Errorf("outcome = %v, want permission_lacking", out)
	}

	a, _ := m.Actor("pc")
	if a.Items["potion"] != 2 {
		t.Errorf("potions = %d, want 2", a.Items["potion"])
	}
}
