// Package catalog looks up craftable items and their prices.
package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/xraph/crafting/types"
)

// ErrItemNotFound is returned when an item reference does not resolve.
var ErrItemNotFound = errors.New("catalog: item not found")

// Item is the display and price data of a craftable item.
type Item struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Image string      `json:"image,omitempty"`
	Price types.Coins `json:"price"`
}

// BatchCost is the price of quantity units.
func (i *Item) BatchCost(quantity int) types.Coins {
	return i.Price.Scale(int64(quantity))
}

// Catalog resolves item references.
type Catalog interface {
	Lookup(ctx context.Context, itemID string) (*Item, error)
}

// Memory is a Catalog backed by a map.
type Memory struct {
	mu    sync.RWMutex
	items map[string]Item
}

// NewMemory returns a catalog holding items.
func NewMemory(items ...Item) *Memory {
	m := &Memory{items: make(map[string]Item, len(items))}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

// Put adds or replaces an item.
func (m *Memory) Put(it Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
}

// Lookup returns a copy of the item.
func (m *Memory) Lookup(_ context.Context, itemID string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	return &it, nil
}
