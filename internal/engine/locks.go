package engine

import "sync"

// userLocks hands out one mutex per user id. Entries are dropped once no
// caller holds or waits for them.
type userLocks struct {
	mu      sync.Mutex
	entries map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{entries: make(map[string]*userLock)}
}

// lock blocks until userID's mutex is held and returns its release func.
func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	entry, ok := l.entries[userID]
	if !ok {
		entry = &userLock{}
		l.entries[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, userID)
		}
		l.mu.Unlock()
	}
}

func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
