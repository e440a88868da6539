package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Task is the handle returned by asynchronous operations. The body runs on
// a background worker; callers block only when they Wait on the handle.
//
// Once the body has started it runs to completion or failure. There is no
// cancellation primitive: a caller may choose not to wait, but cannot abort
// an in-flight operation through this handle.
type Task struct {
	id   string
	done chan struct{}
	err  error
}

func newTask() *Task {
	return &Task{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// ID returns the unique task identifier.
func (t *Task) ID() string {
	return t.id
}

// Done returns a channel closed when the task body has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task body completes and returns its error, if any.
// It is safe to call Wait from multiple goroutines.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// WaitContext blocks until the task completes or the context is done.
// The task itself keeps running if the context expires first.
func (t *Task) WaitContext(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish records the outcome and releases all waiters.
func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// run executes the body, converting panics into errors so a misbehaving
// operation cannot take a worker down with it.
func (t *Task) run(fn func() error) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
		t.finish(err)
	}()
	err = fn()
}
