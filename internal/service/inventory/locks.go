package inventory

import "sync"

// productLocks serializes mutations per product. Entries are dropped once no
// goroutine holds or waits for them.
type productLocks struct {
	mu    sync.Mutex
	locks map[int64]*productLock
}

type productLock struct {
	mu   sync.Mutex
	refs int
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[int64]*productLock)}
}

// Lock blocks until the product is free and returns the matching unlock func.
func (l *productLocks) Lock(productID int64) func() {
	l.mu.Lock()
	entry, ok := l.locks[productID]
	if !ok {
		entry = &productLock{}
		l.locks[productID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, productID)
		}
		l.mu.Unlock()
	}
}

func (l *productLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
