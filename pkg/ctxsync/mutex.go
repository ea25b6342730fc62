package ctxsync

import (
	"context"
)

// NewMutex creates a new instance of Mutex, starting unlocked: the
// single token is pre-seeded into the buffer so the first Lock call
// succeeds without waiting on a concurrent Unlock.
func NewMutex() *Mutex {
	m := &Mutex{
		unlock: make(chan struct{}, 1),
	}
	m.unlock <- struct{}{}
	return m
}

// A Mutex is a mutual exclusion lock backed by a single-slot token
// channel: Lock takes the token, Unlock puts it back.
type Mutex struct {
	unlock chan struct{}
}

// Lock locks the mutex with a context.Background()
func (m *Mutex) Lock() {
	_ = m.LockWithContext(context.Background())
}

// LockWithContext locks until Unlock is called or context is cancelled
func (m *Mutex) LockWithContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.unlock:
		return nil
	}
}

// TryLock tries to lock m and reports whether it succeeded.
func (m *Mutex) TryLock() bool {
	select {
	case <-m.unlock:
		return true
	default:
		return false
	}
}

// Unlock unlocks m.
func (m *Mutex) Unlock() {
	select {
	case m.unlock <- struct{}{}:
	default:
		panic("ctxsync: unlock of unlocked mutex")
	}
}
