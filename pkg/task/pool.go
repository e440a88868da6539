package task

import (
	"errors"
	"runtime"
	"sync"
)

// ErrPoolClosed is returned by tasks spawned on a closed pool.
var ErrPoolClosed = errors.New("task pool is closed")

// Pool limits how many task bodies execute concurrently. Spawn never
// blocks the caller: bodies queue for a worker slot off the calling
// goroutine.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given number of worker slots.
// A non-positive count falls back to runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, workers)}
}

// Spawn schedules fn on a background worker and returns its handle
// immediately. Bodies spawned on the same pool may run concurrently;
// serialization of hardware access is the device's concern, not the
// pool's.
func (p *Pool) Spawn(fn func() error) *Task {
	t := newTask()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		t.finish(ErrPoolClosed)
		return t
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		t.run(fn)
	}()

	return t
}

// Close stops accepting new tasks and waits for in-flight bodies to finish.
// It is safe to call Close multiple times.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
}

// defaultPool serves package-level Spawn calls.
var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Spawn schedules fn on the shared default pool.
func Spawn(fn func() error) *Task {
	defaultPoolOnce.Do(func() {
		defaultPool = NewPool(0)
	})
	return defaultPool.Spawn(fn)
}
