package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/xraph/crafting"
	"github.com/xraph/crafting/id"
	"github.com/xraph/crafting/journal"
	"github.com/xraph/crafting/payment"
	"github.com/xraph/crafting/project"
	"github.com/xraph/crafting/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Projects keyed by owner, then project ID
	projects map[string]map[string]*project.Project

	// Preferred payment strategy per owner
	preferences map[string]payment.Strategy

	// Journal entries in append order
	entries []journal.Entry

	closed bool
}

func New() *Store {
	return &Store{
		projects:    make(map[string]map[string]*project.Project),
		preferences: make(map[string]payment.Strategy),
		entries:     make([]journal.Entry, 0),
	}
}

// Project Store implementation
func (s *Store) ListProjects(_ context.Context, ownerID string) ([]*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*project.Project, 0, len(s.projects[ownerID]))
	for _, p := range s.projects[ownerID] {
		cp := *p
		result = append(result, &cp)
	}

	slices.SortFunc(result, func(a, b *project.Project) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return result, nil
}

func (s *Store) GetProject(_ context.Context, ownerID string, projectID id.ProjectID) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.projects[ownerID][projectID.String()]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, crafting.ErrProjectNotFound
}

func (s *Store) UpsertProject(_ context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return crafting.ErrStoreClosed
	}

	owned, ok := s.projects[p.OwnerID]
	if !ok {
		owned = make(map[string]*project.Project)
		s.projects[p.OwnerID] = owned
	}
	cp := *p
	owned[p.ID.String()] = &cp
	return nil
}

func (s *Store) DeleteProject(_ context.Context, ownerID string, projectID id.ProjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.projects[ownerID]
	if _, exists := owned[projectID.String()]; !exists {
		return crafting.ErrProjectNotFound
	}
	delete(owned, projectID.String())
	if len(owned) == 0 {
		delete(s.projects, ownerID)
	}
	return nil
}

// Preference Store implementation
func (s *Store) GetPreferredStrategy(_ context.Context, ownerID string) (payment.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.preferences[ownerID]; ok {
		return st, nil
	}
	return "", nil
}

func (s *Store) SetPreferredStrategy(_ context.Context, ownerID string, strategy payment.Strategy) error {
	if !strategy.Valid() {
		return fmt.Errorf("%w: %q", crafting.ErrUnknownStrategy, string(strategy))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.preferences[ownerID] = strategy
	return nil
}

// Journal Store implementation
func (s *Store) AppendEntry(_ context.Context, e *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return crafting.ErrStoreClosed
	}
	s.entries = append(s.entries, *e)
	return nil
}

func (s *Store) ListEntries(_ context.Context, ownerID string, opts journal.QueryOpts) ([]*journal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*journal.Entry, 0)
	for i := range s.entries {
		e := s.entries[i]
		if e.OwnerID != ownerID {
			continue
		}
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if (!opts.Start.IsZero() && e.Timestamp.Before(opts.Start)) ||
			(!opts.End.IsZero() && !e.Timestamp.Before(opts.End)) {
			continue
		}
		result = append(result, &e)
	}

	// Apply limit/offset; non-positive values mean none.
	start := min(max(opts.Offset, 0), len(result))
	end := len(result)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, end)
	}

	return result[start:end], nil
}

func (s *Store) PurgeEntries(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	kept := make([]journal.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Timestamp.Before(before) {
			count++
		} else {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return count, nil
}

// Store management
func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return crafting.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
