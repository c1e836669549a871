// Package ctxsync provides locks whose acquisition can be abandoned when a
// context is done.
package ctxsync

import (
	"context"
)

// NewRWMutex creates a new instance of RWMutex.
func NewRWMutex() *RWMutex {
	readers := make(chan int, 1)
	readers <- 0
	return &RWMutex{
		writer:  make(chan struct{}, 1),
		readers: readers,
	}
}

// A RWMutex is a reader/writer mutual exclusion lock. The lock can be held
// by any number of readers or by a single writer. Writers queue in the
// order they called Lock.
type RWMutex struct {
	// writer is full while a writer or the group of readers holds the
	// lock.
	writer chan struct{}
	// readers holds the number of active readers. Receiving from it guards
	// the count.
	readers chan int
}

// Lock locks the mutex for writing with a context.Background()
func (m *RWMutex) Lock() {
	_ = m.LockWithContext(context.Background())
}

// LockWithContext locks for writing until Unlock is called or context is
// cancelled.
func (m *RWMutex) LockWithContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case m.writer <- struct{}{}:
		return nil
	}
}

// TryLock tries to lock m for writing and reports whether it succeeded.
func (m *RWMutex) TryLock() bool {
	select {
	case m.writer <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock unlocks m for writing.
func (m *RWMutex) Unlock() {
	select {
	case <-m.writer:
	default:
		panic("ctxsync: unlock of unlocked mutex")
	}
}

// RLock locks the mutex for reading with a context.Background()
func (m *RWMutex) RLock() {
	_ = m.RLockWithContext(context.Background())
}

// RLockWithContext locks for reading. The first reader waits for the
// writer lock and the last one to leave releases it.
func (m *RWMutex) RLockWithContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var n int
	select {
	case <-ctx.Done():
		return ctx.Err()
	case n = <-m.readers:
	}
	if n == 0 {
		select {
		case <-ctx.Done():
			m.readers <- n
			return ctx.Err()
		case m.writer <- struct{}{}:
		}
	}
	m.readers <- n + 1
	return nil
}

// RUnlock undoes a single RLock call.
func (m *RWMutex) RUnlock() {
	n := <-m.readers
	if n == 0 {
		m.readers <- n
		panic("ctxsync: runlock of unlocked mutex")
	}
	if n == 1 {
		<-m.writer
	}
	m.readers <- n - 1
}
