package ctxsync_test

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vinicius-lino-figueiredo/gequery/pkg/ctxsync"
)

// Multiple goroutines should not be able to acquire the same lock.
func TestLock(t *testing.T) {
	workers := 1000

	n := 0
	mu := ctxsync.NewRWMutex()

	getReady := sync.WaitGroup{} // called before locking on ch
	add := sync.WaitGroup{}      // called after adding 1 to n

	getReady.Add(workers)
	add.Add(workers)

	ch := make(chan struct{})

	for range workers {
		go func() {
			defer add.Done()
			getReady.Done()
			<-ch // released after all goroutines are waiting here
			mu.Lock()
			defer mu.Unlock()
			n++
		}()
	}

	getReady.Wait()
	close(ch)
	add.Wait()

	assert.Equal(t, workers, n)
}

// Writers should acquire the lock in the same order that they called Lock().
func TestOrder(t *testing.T) {
	workers := 200

	n := make([]int, 0, workers)
	mu := ctxsync.NewRWMutex()
	wg := sync.WaitGroup{}

	mu.Lock()

	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			n = append(n, i)
		}()

		// make sure the next goroutine won't call Lock before this one
		time.Sleep(time.Millisecond)
	}
	mu.Unlock()
	wg.Wait()
	assert.Len(t, n, workers)
	assert.True(t, slices.IsSorted(n))
}

// Readers should share the lock.
func TestSharedReaders(t *testing.T) {
	const readers = 100

	mu := ctxsync.NewRWMutex()
	var inside atomic.Int64
	var peak atomic.Int64

	all := sync.WaitGroup{}
	all.Add(readers)
	release := make(chan struct{})
	done := sync.WaitGroup{}
	done.Add(readers)

	for range readers {
		go func() {
			defer done.Done()
			mu.RLock()
			defer mu.RUnlock()
			cur := inside.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			all.Done()
			<-release
			inside.Add(-1)
		}()
	}

	all.Wait()
	assert.Equal(t, int64(readers), peak.Load())
	assert.False(t, mu.TryLock())

	close(release)
	done.Wait()
	assert.True(t, mu.TryLock())
	mu.Unlock()
}

// Readers should wait for the writer and the writer for the readers.
func TestReadersAndWriter(t *testing.T) {
	mu := ctxsync.NewRWMutex()
	mu.Lock()

	var read atomic.Bool
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		mu.RLock()
		read.Store(true)
		mu.RUnlock()
	}()

	time.Sleep(time.Millisecond)
	assert.False(t, read.Load())
	mu.Unlock()
	wg.Wait()
	assert.True(t, read.Load())

	mu.RLock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, mu.LockWithContext(ctx), context.DeadlineExceeded)
	mu.RUnlock()
	assert.NoError(t, mu.LockWithContext(context.Background()))
	mu.Unlock()
}

// A reader giving up should leave the mutex usable.
func TestRLockCanceling(t *testing.T) {
	mu := ctxsync.NewRWMutex()
	mu.Lock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, mu.RLockWithContext(ctx), context.DeadlineExceeded)

	mu.Unlock()
	assert.NoError(t, mu.RLockWithContext(context.Background()))
	mu.RUnlock()
	assert.True(t, mu.TryLock())
}

// Should return error when context is canceled after Lock is called.
func TestCanceling(t *testing.T) {
	const workers = 1000

	var n atomic.Int64
	var errs []error

	mu := ctxsync.NewRWMutex()
	listMu := sync.Mutex{}

	getReady := sync.WaitGroup{}
	added := sync.WaitGroup{}
	getReady.Add(workers)
	added.Add(workers)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mu.Lock()

	ch := make(chan struct{})

	for i := range workers {
		go func() {
			defer added.Done()
			getReady.Done()
			<-ch

			lock, unlock := mu.LockWithContext, mu.Unlock
			if i%2 == 0 {
				lock, unlock = mu.RLockWithContext, mu.RUnlock
			}
			err := lock(ctx)

			listMu.Lock()
			errs = append(errs, err)
			listMu.Unlock()

			if err != nil {
				return
			}
			n.Add(1)
			unlock()
		}()
	}

	getReady.Wait()
	close(ch)
	time.Sleep(time.Millisecond)
	cancel()

	added.Wait()
	assert.Len(t, errs, workers)
	assert.Zero(t, n.Load())
	for _, e := range errs {
		assert.Error(t, e)
	}
}

// Should not wait for lock if passed context is already canceled.
func TestCanceledContext(t *testing.T) {
	mu := ctxsync.NewRWMutex()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, mu.LockWithContext(ctx), context.Canceled)
	assert.ErrorIs(t, mu.RLockWithContext(ctx), context.Canceled)

	// nothing was acquired
	assert.True(t, mu.TryLock())
}

// Should panic if Unlock is called before Lock.
func TestUnlockWithoutLock(t *testing.T) {
	mu := ctxsync.NewRWMutex()
	assert.Panics(t, func() {
		mu.Unlock()
	})
	assert.Panics(t, func() {
		mu.RUnlock()
	})
	// the failed RUnlock left the mutex usable
	assert.True(t, mu.TryLock())
}

// Should panic if Unlock is called twice without another Lock.
func TestDoubleUnlock(t *testing.T) {
	mu := ctxsync.NewRWMutex()

	assert.NoError(t, mu.LockWithContext(context.Background()))
	mu.Unlock()

	assert.Panics(t, func() {
		mu.Unlock()
	})
}

// BenchmarkLockUnlock tests performance for consecutive Lock/Unlock calls.
func BenchmarkLockUnlock(b *testing.B) {
	mu := ctxsync.NewRWMutex()
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = mu.LockWithContext(ctx)
			mu.Unlock()
		}
	})
}

// BenchmarkRLockRUnlock tests performance for concurrent readers.
func BenchmarkRLockRUnlock(b *testing.B) {
	mu := ctxsync.NewRWMutex()
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = mu.RLockWithContext(ctx)
			mu.RUnlock()
		}
	})
}
