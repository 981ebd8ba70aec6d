package inventory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/xraph/crafting/reagent"
	"github.com/xraph/crafting/types"
)

// Actor is one owner's inventory in a Memory inventory.
type Actor struct {
	ID       string
	Name     string
	Coins    types.Coins
	Reagents []reagent.Reagent
	Items    map[string]int

	// GrantOutcome is returned by GrantItem. Anything but Granted leaves
	// Items untouched.
	GrantOutcome GrantOutcome
}

// Memory is an Inventory held in process.
type Memory struct {
	mu     sync.Mutex
	actors map[string]*Actor
}

var _ Inventory = (*Memory)(nil)

// NewMemory returns an empty inventory.
func NewMemory() *Memory {
	return &Memory{actors: make(map[string]*Actor)}
}

// Put adds or replaces an actor.
func (m *Memory) Put(a Actor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.Reagents = slices.Clone(a.Reagents)
	if a.Items == nil {
		a.Items = make(map[string]int)
	} else {
		a.Items = maps.Clone(a.Items)
	}
	m.actors[a.ID] = &a
}

// Actor returns a copy of the actor's current state.
func (m *Memory) Actor(ownerID string) (Actor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.actors[ownerID]
	if !ok {
		return Actor{}, false
	}
	cp := *a
	cp.Reagents = slices.Clone(a.Reagents)
	cp.Items = maps.Clone(a.Items)
	return cp, true
}

// SetGrantOutcome changes what GrantItem returns for ownerID.
func (m *Memory) SetGrantOutcome(ownerID string, o GrantOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.actors[ownerID]; ok {
		a.GrantOutcome = o
	}
}

func (m *Memory) get(ownerID string) (*Actor, error) {
	a, ok := m.actors[ownerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOwnerNotFound, ownerID)
	}
	return a, nil
}

func (m *Memory) DisplayName(_ context.Context, ownerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.get(ownerID)
	if err != nil {
		return "", err
	}
	return a.Name, nil
}

func (m *Memory) Coins(_ context.Context, ownerID string) (types.Coins, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.get(ownerID)
	if err != nil {
		return types.NoCoins(), err
	}
	return a.Coins, nil
}

func (m *Memory) Reagents(_ context.Context, ownerID string) ([]reagent.Reagent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.get(ownerID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(a.Reagents), nil
}

func (m *Memory) RemoveCoins(_ context.Context, ownerID string, amount types.Coins) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.get(ownerID)
	if err != nil {
		return err
	}
	if a.Coins.LessThan(amount) {
		return fmt.Errorf("inventory: %s has %s, cannot remove %s", ownerID, a.Coins, amount)
	}
	a.Coins = a.Coins.Subtract(amount)
	return nil
}

func (m *Memory) ApplyReagentUpdates(_ context.Context, ownerID string, updates []reagent.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.get(ownerID)
	if err != nil {
		return err
	}
	idx := make([]int, len(updates))
	for n, u := range updates {
		i := slices.IndexFunc(a.Reagents, func(r reagent.Reagent) bool { return r.ID == u.ReagentID })
		if i < 0 {
			return fmt.Errorf("inventory: %s has no reagent %s", ownerID, u.ReagentID)
		}
		idx[n] = i
	}
	for n, u := range updates {
		a.Reagents[idx[n]] = u.Apply(a.Reagents[idx[n]])
	}
	return nil
}

func (m *Memory) GrantItem(_ context.Context, ownerID, itemID string, quantity int) (GrantOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.get(ownerID)
	if err != nil {
		return Failed, err
	}
	if a.GrantOutcome != Granted {
		return a.GrantOutcome, nil
	}
	a.Items[itemID] += quantity
	return Granted, nil
}
