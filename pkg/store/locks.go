package store

import "sync"

// keyLocks serializes whole-record read-modify-write cycles per record
// key. Mutations on different records proceed in parallel; two mutations
// on the same conversation or message queue behind one another, which is
// what prevents lost updates on reaction toggles and typing refreshes.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: map[string]*keyLock{}}
}

// acquire locks the given key and returns the release function. Lock
// entries are reference-counted and removed when the last holder leaves,
// so the map stays bounded by in-flight mutations.
func (kl *keyLocks) acquire(key string) func() {
	kl.mu.Lock()
	l, ok := kl.locks[key]
	if !ok {
		l = &keyLock{}
		kl.locks[key] = l
	}
	l.refs++
	kl.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		kl.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(kl.locks, key)
		}
		kl.mu.Unlock()
	}
}

var recordLocks = newKeyLocks()

// LockRecord serializes callers on an arbitrary record key. Store
// mutators take their own locks; this is for callers that need a
// lookup-then-create cycle to be atomic, like the direct-pair index.
func LockRecord(key string) func() {
	return recordLocks.acquire(key)
}
