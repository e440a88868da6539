package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnWait(t *testing.T) {
	var ran atomic.Bool

	tk := Spawn(func() error {
		ran.Store(true)
		return nil
	})

	require.NoError(t, tk.Wait())
	assert.True(t, ran.Load())
	assert.NotEmpty(t, tk.ID())
}

func TestWaitPropagatesError(t *testing.T) {
	sentinel := errors.New("raw setter failed")

	tk := Spawn(func() error { return sentinel })

	err := tk.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestWaitFromMultipleGoroutines(t *testing.T) {
	release := make(chan struct{})
	tk := Spawn(func() error {
		<-release
		return nil
	})

	results := make(chan error, 3)
	for i := 0; i < 3; i++ {
		go func() { results <- tk.Wait() }()
	}

	close(release)
	for i := 0; i < 3; i++ {
		assert.NoError(t, <-results)
	}
}

func TestPanicBecomesError(t *testing.T) {
	tk := Spawn(func() error { panic("boom") })

	err := tk.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestWaitContext(t *testing.T) {
	release := make(chan struct{})
	tk := Spawn(func() error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tk.WaitContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// The body is still running; release it and wait normally.
	close(release)
	assert.NoError(t, tk.Wait())
}

func TestPoolLimitsConcurrency(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	var running, peak atomic.Int32
	release := make(chan struct{})

	var tasks []*Task
	for i := 0; i < 5; i++ {
		tasks = append(tasks, pool.Spawn(func() error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			running.Add(-1)
			return nil
		}))
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	for _, tk := range tasks {
		require.NoError(t, tk.Wait())
	}

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestPoolClosed(t *testing.T) {
	pool := NewPool(1)
	pool.Close()

	err := pool.Spawn(func() error { return nil }).Wait()
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestSpawnReturnsImmediately(t *testing.T) {
	pool := NewPool(1)
	defer pool.Close()

	release := make(chan struct{})
	first := pool.Spawn(func() error {
		<-release
		return nil
	})

	// The single worker slot is occupied; Spawn must still not block.
	start := time.Now()
	second := pool.Spawn(func() error { return nil })
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(release)
	require.NoError(t, first.Wait())
	require.NoError(t, second.Wait())
}
