// Package shutdownqueue collects named cleanup tasks and drains them in
// reverse order of registration.
//
// Typical use in a main package:
//
//	q := shutdownqueue.New()
//	defer func() {
//		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//		defer cancel()
//		_ = q.Shutdown(ctx)
//	}()
//
//	q.Add("postgres", func(context.Context) error { return db.Close() })
//
// Tasks run once. Panics are recovered and reported as errors. Shutdown is
// idempotent and returns an aggregated error via errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it can't finish (or ctx is canceled).
type Task func(ctx context.Context) error

type namedTask struct {
	name string
	run  Task
}

// Queue is a LIFO list of shutdown tasks. The zero value is not usable; call New.
type Queue struct {
	mu     sync.Mutex
	tasks  []namedTask
	closed bool
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{tasks: make([]namedTask, 0, 8)}
}

// Add registers a task under name. Safe for concurrent use.
// If t is nil or shutdown has already started, Add does nothing.
func (q *Queue) Add(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, namedTask{name: name, run: t})
}

// Len reports the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.tasks)
}

// Shutdown drains all registered tasks in LIFO order.
// It is safe to call multiple times; after the first run subsequent calls
// are no-ops.
//
// If ctx is canceled mid-drain, Shutdown stops early and returns the context
// error joined with any task errors so far.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()

	if q.closed && len(q.tasks) == 0 {
		q.mu.Unlock()

		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil

	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled before %q: %w", tasks[i].name, ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t namedTask) (err error) {
	start := time.Now()

	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic in shutdown task %q: %v", t.name, r)
		}

		if err != nil {
			slog.Error("shutdown task failed", "task", t.name, "error", err)
			return
		}

		slog.Info("shutdown task done", "task", t.name, "duration_ms", time.Since(start).Milliseconds())
	}()

	err = t.run(ctx)
	if err != nil {
		return fmt.Errorf("shutdown %s: %w", t.name, err)
	}

	return nil
}
