package service

import "sync"

// claimLocks hands out one mutex per claim id so workflow transitions on a
// single claim are serialized. Two concurrent approvals on the same claim
// would otherwise race between reading the current step and writing the
// advanced one.
type claimLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newClaimLocks() *claimLocks {
	return &claimLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *claimLocks) get(claimID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[claimID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[claimID] = lock
	}
	return lock
}
