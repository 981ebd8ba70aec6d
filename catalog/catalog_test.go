package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/crafting/types"
)

func TestMemoryLookup(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Item{ID: "sword", Name: "Longsword", Price: types.Gold(1)})

	it, err := m.Lookup(ctx, "sword")
	if err != nil {
		t.Fatal(err)
	}
	if it.Name != "Longsword" {
		t.Errorf("Name = %q", it.Name)
	}
	if got := it.BatchCost(4); !got.Equal(types.Gold(4)) {
		t.Errorf("BatchCost(4) = %v, want 4 gp", got)
	}

	it.Name = "changed"
	again, _ := m.Lookup(ctx, "sword")
	if again.Name != "Longsword" {
		t.Error("Lookup returned shared item")
	}

	if _, err := m.Lookup(ctx, "missing"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}
