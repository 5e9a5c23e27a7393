package settlement

import "sync"

// tripLocker serializes ledger reconciliation per trip. Two concurrent
// summary requests for the same trip must not interleave their upsert and
// delete operations, or the ledger could end up with duplicate or stale
// pending records. Locks for different trips are independent.
//
// Entries are never released; the map is bounded by the number of trips this
// instance has reconciled since start.
type tripLocker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newTripLocker() *tripLocker {
	return &tripLocker{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the lock for the given trip and returns the unlock function.
func (l *tripLocker) Lock(tripID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[tripID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[tripID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
