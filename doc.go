// Package crafting provides a crafting project ledger for tabletop game hosts.
//
// A project accumulates value toward crafting a batch of one item over many
// sessions. Each step is paid for from the crafter's coins, from reagents
// (in-kind value packed into Bulk units), or from both, and the project
// completes when its progress reaches the batch cost.
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/crafting"
//	    "github.com/xraph/crafting/store/sqlite"
//	)
//
//	s := sqlite.New(db)
//
//	e := crafting.New(s,
//	    crafting.WithCatalog(items),
//	    crafting.WithInventory(actors),
//	    crafting.WithNotifier(ui),
//	)
//	if err := e.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Stop(ctx)
//
// # Projects
//
// Begin pays the starting progress and creates a project:
//
//	out, err := e.Begin(ctx, crafting.BeginRequest{
//	    OwnerID:          "actor-1",
//	    ItemID:           "healing-potion",
//	    BatchSize:        4,
//	    StartingProgress: crafting.Gold(5),
//	    Strategy:         crafting.StrategyPreferReagent,
//	})
//
// Craft spends more value on it. The crafter paying may be a different
// actor than the owner:
//
//	out, err = e.Craft(ctx, crafting.CraftRequest{
//	    CrafterID:      "actor-2",
//	    OwnerID:        "actor-1",
//	    ProjectID:      out.Project.ID,
//	    SpendingAmount: crafting.Gold(10),
//	})
//
// Advance adds or removes progress without payment, Edit overrides fields
// directly, and Abandon drops a project. When progress reaches cost the
// batch is granted to the owner and the project is removed. If the grant
// is refused for lack of permission the project is kept, and the next
// Advance retries it.
//
// # Payment strategies
//
//   - fullCoin: coins only
//   - preferCoin: coins first, reagents for the shortfall
//   - preferReagent: reagents first, coins for the shortfall
//   - fullReagent: reagents only
//   - free: nothing is charged
//
// Payments are computed before anything is changed. A payer who cannot
// cover the whole cost loses nothing.
//
// # Concurrency
//
// Every mutation of one owner's projects runs under a per-owner lock, and
// stores persist each project as its own record keyed by owner and
// project ID.
//
// # TypeID
//
// Records use TypeID identifiers:
//
//	proj_01h2xcejqtf2nbrexx3vqjhp41  // Project ID
//	jrnl_01h2xcejqtf2nbrexx3vqjhp41  // Journal entry ID
package crafting
