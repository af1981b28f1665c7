package engine

import (
	"context"
	"sync"
)

// MainQueue funnels work from background goroutines onto the goroutine
// that owns the scene. Post may be called from anywhere; Pump must only be
// called from the owning goroutine, typically once per frame.
type MainQueue struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

func NewMainQueue() *MainQueue {
	return &MainQueue{wake: make(chan struct{}, 1)}
}

func (q *MainQueue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pump runs every task queued so far, including tasks queued by the tasks
// themselves, and returns how many ran.
func (q *MainQueue) Pump() int {
	ran := 0
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(tasks) == 0 {
			return ran
		}
		for _, fn := range tasks {
			fn()
			ran++
		}
	}
}

func (q *MainQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// RunUntil pumps the queue on the calling goroutine until done reports
// true or ctx ends. It is the frame loop of headless hosts.
func (q *MainQueue) RunUntil(ctx context.Context, done func() bool) error {
	for {
		q.Pump()
		if done() {
			return nil
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
