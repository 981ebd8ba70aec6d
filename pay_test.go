package crafting_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/xraph/crafting"
	"github.com/xraph/crafting/catalog"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/journal"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/store"
	"github.com/xraph/crafting/store/memory"
	"github.com/xraph/crafting/types"
)

var (
	errDiskFull = errors.New("disk full")
	errRejected = errors.New("host rejected update")
)

// flakyStore fails project writes while failing is set.
type flakyStore struct {
	*memory.Store
	failing atomic.Bool
}

func (s *flakyStore) UpsertProject(ctx context.Context, p *project.Project) error {
	if s.failing.Load() {
		return errDiskFull
	}
	return s.Store.UpsertProject(ctx, p)
}

// flakyInventory fails the configured mutation.
type flakyInventory struct {
	*inventory.Memory
	failReagents bool
	failCoins    bool
}

func (i *flakyInventory) ApplyReagentUpdates(ctx context.Context, ownerID string, updates []reagent.Update) error {
	if i.failReagents {
		return errRejected
	}
	return i.Memory.ApplyReagentUpdates(ctx, ownerID, updates)
}

func (i *flakyInventory) RemoveCoins(ctx context.Context, ownerID string, amount types.Coins) error {
	if i.failCoins {
		return errRejected
	}
	return i.Memory.RemoveCoins(ctx, ownerID, amount)
}

func newPayEngine(t *testing.T, s store.Store, inv inventory.Inventory) *crafting.Engine {
	t.Helper()
	e := crafting.New(s,
		crafting.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		crafting.WithCatalog(catalog.NewMemory(
			catalog.Item{ID: "potion", Name: "Healing Potion", Price: types.Gold(100)},
		)),
		crafting.WithInventory(inv),
	)
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return e
}

func newActors(coins types.Coins) *inventory.Memory {
	inv := inventory.NewMemory()
	inv.Put(inventory.Actor{
		ID:       "pc",
		Name:     "Ezren",
		Coins:    coins,
		Reagents: []reagent.Reagent{{ID: "r1", Name: "Reagents", Level: 6, Quantity: 10}},
	})
	return inv
}

func checkUntouched(t *testing.T, e *crafting.Engine, inv *inventory.Memory, coins types.Coins, projects int) {
	t.Helper()
	a, _ := inv.Actor("pc")
	if !a.Coins.Equal(coins) {
		t.Errorf("coins = %v, want %v", a.Coins, coins)
	}
	if len(a.Reagents) != 1 || a.Reagents[0].Quantity != 10 || !a.Reagents[0].Leftovers.IsZero() {
		t.Errorf("reagents = %+v, want r1 untouched", a.Reagents)
	}
	views, err := e.ListProjects(context.Background(), "pc")
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != projects {
		t.Errorf("projects = %d, want %d", len(views), projects)
	}
}

func TestBeginSaveFailureChargesNothing(t *testing.T) {
	s := &flakyStore{Store: memory.New()}
	s.failing.Store(true)
	inv := newActors(types.Gold(200))
	e := newPayEngine(t, s, inv)

	_, err := e.Begin(context.Background(), crafting.BeginRequest{
		OwnerID: "pc", ItemID: "potion", BatchSize: 1,
		StartingProgress: types.Gold(40), Strategy: payment.StrategyCurrencyOnly,
	})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want disk full", err)
	}
	checkUntouched(t, e, inv, types.Gold(200), 0)

	entries, _ := e.Journal(context.Background(), "pc", journal.QueryOpts{})
	if len(entries) != 0 {
		t.Errorf("journal = %d entries, want none for a failed begin", len(entries))
	}
}

func TestPaymentFailureLeavesPayerWhole(t *testing.T) {
	tests := []struct {
		name         string
		failReagents bool
		failCoins    bool
	}{
		{"reagent update rejected", true, false},
		{"coin removal rejected", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actors := newActors(types.Gold(30))
			inv := &flakyInventory{Memory: actors, failReagents: tt.failReagents, failCoins: tt.failCoins}
			e := newPayEngine(t, memory.New(), inv)

			// 30 gp of coin plus 20 gp from reagents.
			_, err := e.Begin(context.Background(), crafting.BeginRequest{
				OwnerID: "pc", ItemID: "potion", BatchSize: 1,
				StartingProgress: types.Gold(50), Strategy: payment.StrategyPreferCurrency,
			})
			if !errors.Is(err, errRejected) {
				t.Fatalf("err = %v, want rejected", err)
			}
			checkUntouched(t, e, actors, types.Gold(30), 0)
		})
	}
}

func TestCraftSaveFailureChargesNothing(t *testing.T) {
	ctx := context.Background()
	s := &flakyStore{Store: memory.New()}
	inv := newActors(types.Gold(200))
	e := newPayEngine(t, s, inv)

	out, err := e.Begin(ctx, crafting.BeginRequest{
		OwnerID: "pc", ItemID: "potion", BatchSize: 1,
		StartingProgress: types.Gold(10), Strategy: payment.StrategyCurrencyOnly,
	})
	if err != nil {
		t.Fatal(err)
	}

	s.failing.Store(true)
	_, err = e.Craft(ctx, crafting.CraftRequest{
		OwnerID: "pc", ProjectID: out.Project.ID,
		SpendingAmount: types.Gold(20), Strategy: payment.StrategyCurrencyOnly,
	})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("err = %v, want disk full", err)
	}
	checkUntouched(t, e, inv, types.Gold(190), 1)

	p, err := s.GetProject(ctx, "pc", out.Project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Progress.Equal(types.Gold(10)) {
		t.Errorf("progress = %v, want 10 gp", p.Progress)
	}
}

func TestCraftDeclinedRollsBackProgress(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	inv := newActors(types.Gold(20))
	e := newPayEngine(t, s, inv)

	out, err := e.Begin(ctx, crafting.BeginRequest{
		OwnerID: "pc", ItemID: "potion", BatchSize: 1,
		StartingProgress: types.Gold(10), Strategy: payment.StrategyCurrencyOnly,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = e.Craft(ctx, crafting.CraftRequest{
		OwnerID: "pc", ProjectID: out.Project.ID,
		SpendingAmount: types.Gold(30), Strategy: payment.StrategyCurrencyOnly,
	})
	if !errors.Is(err, crafting.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	p, err := s.GetProject(ctx, "pc", out.Project.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Progress.Equal(types.Gold(10)) {
		t.Errorf("progress = %v, want 10 gp", p.Progress)
	}
	checkUntouched(t, e, inv, types.Gold(10), 1)
}

func TestDeclinedPaymentRemembersStrategy(t *testing.T) {
	ctx := context.Background()
	inv := newActors(types.Gold(5))
	e := newPayEngine(t, memory.New(), inv)

	_, err := e.Begin(ctx, crafting.BeginRequest{
		OwnerID: "pc", ItemID: "potion", BatchSize: 1,
		StartingProgress: types.Gold(60), Strategy: payment.StrategyReagentOnly,
	})
	if !errors.Is(err, crafting.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	got, err := e.PreferredStrategy(ctx, "pc")
	if err != nil {
		t.Fatal(err)
	}
	if got != payment.StrategyReagentOnly {
		t.Errorf("preferred = %q, want %q", got, payment.StrategyReagentOnly)
	}
	checkUntouched(t, e, inv, types.Gold(5), 0)
}
