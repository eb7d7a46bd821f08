package task

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Task is a handle to a function running in its own goroutine.
type Task struct {
	Name string

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Start runs fn in a new goroutine with a context derived from ctx. A panic
// in fn is recovered and reported as the task's error.
func Start(ctx context.Context, name string, fn func(ctx context.Context) error) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{Name: name, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()
		err := run(ctx, fn)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("task %s failed: %v", name, err)
		} else {
			log.Debugf("task %s finished", name)
		}
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}()
	return t
}

func run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(ctx)
}

// Cancel asks the task to stop. It does not wait.
func (t *Task) Cancel() { t.cancel() }

// Done is closed when the task returns.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task returns and yields its error.
func (t *Task) Wait() error {
	<-t.done
	return t.Err()
}

// Err returns the task's error, or nil while it is still running.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
