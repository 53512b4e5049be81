package engine

import "sync"

// lockTable hands out one mutex per settlement so ticks and structure
// operations against the same settlement serialize, while different
// settlements proceed fully in parallel. Never a global lock.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the settlement's mutex and returns its unlock func.
func (t *lockTable) Lock(settlementID string) func() {
	t.mu.Lock()
	l, ok := t.locks[settlementID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[settlementID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Forget drops a settlement's lock entry after deletion.
func (t *lockTable) Forget(settlementID string) {
	t.mu.Lock()
	delete(t.locks, settlementID)
	t.mu.Unlock()
}
