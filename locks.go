package crafting

import (
	"slices"
	"sync"
)

// ownerLocks serialises mutations per owner. Entries are dropped once no
// goroutine holds or waits on them.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*ownerLock)}
}

// lock acquires every key in sorted order and returns the release func.
// Duplicate and empty keys are ignored.
func (l *ownerLocks) lock(keys ...string) func() {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)
	keys = slices.DeleteFunc(keys, func(k string) bool { return k == "" })

	held := make([]*ownerLock, 0, len(keys))
	for _, k := range keys {
		l.mu.Lock()
		ol, ok := l.locks[k]
		if !ok {
			ol = &ownerLock{}
			l.locks[k] = ol
		}
		ol.refs++
		l.mu.Unlock()

		ol.mu.Lock()
		held = append(held, ol)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()

			l.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(l.locks, keys[i])
			}
			l.mu.Unlock()
		}
	}
}

func (l *ownerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
