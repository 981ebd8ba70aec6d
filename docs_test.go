package crafting_test

import (
	"context"
	"log"
	"log/slog"
	"testing"

	"github.com/xraph/crafting"
	"github.com/xraph/crafting/catalog"
	"github.com/xraph/crafting/inventory"
	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/store/memory"
	"github.com/xraph/crafting/types"
)

// TestDocumentationExamples verifies that the package documentation examples run.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use SQLite or PostgreSQL in production)
		store := memory.New()

		items := catalog.NewMemory(catalog.Item{
			ID:    "healing-potion",
			Name:  "Minor Healing Potion",
			Price: types.Gold(4),
		})

		actors := inventory.NewMemory()
		actors.Put(inventory.Actor{ID: "actor-1", Name: "Kyra", Coins: types.Gold(20)})
		actors.Put(inventory.Actor{
			ID:       "actor-2",
			Name:     "Valeros",
			Reagents: []reagent.Reagent{{ID: "pouch", Level: 1, Quantity: 30}},
		})

		e := crafting.New(store,
			crafting.WithLogger(slog.Default()),
			crafting.WithCatalog(items),
			crafting.WithInventory(actors),
		)

		ctx := context.Background()
		if err := e.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer e.Stop(ctx)

		out, err := e.Begin(ctx, crafting.BeginRequest{
			OwnerID:          "actor-1",
			ItemID:           "healing-potion",
			BatchSize:        4,
			StartingProgress: crafting.Gold(5),
		})
		if err != nil {
			t.Fatal(err)
		}

		// A second actor pays the rest with reagents.
		out, err = e.Craft(ctx, crafting.CraftRequest{
			CrafterID:      "actor-2",
			OwnerID:        "actor-1",
			ProjectID:      out.Project.ID,
			SpendingAmount: crafting.Gold(11),
			Strategy:       crafting.StrategyReagentOnly,
		})
		if err != nil {
			t.Fatal(err)
		}

		if out.State != crafting.StateCompleted {
			t.Fatalf("state = %s, want completed", out.State)
		}
		log.Printf("crafted %d x %s", out.Project.BatchSize, out.Project.ItemID)
	})

	t.Run("CoinsExamples", func(t *testing.T) {
		// Constructors
		_ = types.Gold(5)     // 5 gp
		_ = types.Silver(3)   // 3 sp
		_ = types.Platinum(1) // 10 gp

		// Arithmetic
		c1 := types.Gold(1)
		c2 := types.Silver(25)
		sum := c1.Add(c2) // 3 gp, 5 sp
		_ = c1.Scale(4)   // 4 gp

		// Parsing and formatting
		if got := types.ParseCoins(sum.String()); !got.Equal(sum) {
			t.Errorf("round trip = %v, want %v", got, sum)
		}
		if sum.String() != "3 gp, 5 sp" {
			t.Errorf("String = %q", sum.String())
		}
	})
}
