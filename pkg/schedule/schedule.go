// Package schedule runs repeating and deferred callbacks that are owned by a
// caller and released together on teardown.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task is a handle on a scheduled callback.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func newTask(parent context.Context) (*Task, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Task{cancel: cancel, done: make(chan struct{})}, ctx
}

func stoppedTask() *Task {
	t := &Task{cancel: func() {}, done: make(chan struct{})}
	close(t.done)
	return t
}

// Stop cancels the task. It does not wait, so it is safe to call from inside
// the callback itself. Calling Stop more than once is a no-op.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.cancel()
}

// Wait blocks until the task goroutine has returned. It must not be called
// from the task's own callback.
func (t *Task) Wait() {
	if t == nil {
		return
	}
	<-t.done
}

// Done is closed once the task goroutine has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Every calls fn right away, then once per interval until ctx is done or the
// task is stopped. Calls never overlap; ticks missed while fn runs are
// dropped. fn receives a context cancelled on Stop.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context)) *Task {
	if interval <= 0 {
		panic("schedule: non-positive interval")
	}
	t, tctx := newTask(ctx)
	go func() {
		defer close(t.done)
		defer t.cancel()
		if tctx.Err() != nil {
			return
		}
		fn(tctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-tctx.Done():
				return
			case <-ticker.C:
				if tctx.Err() != nil {
					return
				}
				fn(tctx)
			}
		}
	}()
	return t
}

// After calls fn once when delay has elapsed, unless stopped first.
func After(ctx context.Context, delay time.Duration, fn func(context.Context)) *Task {
	t, tctx := newTask(ctx)
	go func() {
		defer close(t.done)
		defer t.cancel()
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-tctx.Done():
		case <-timer.C:
			if tctx.Err() == nil {
				fn(tctx)
			}
		}
	}()
	return t
}

// Group owns tasks so they can be released together.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	tasks  []*Task
	closed bool
}

func NewGroup(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel}
}

// Every schedules a repeating task. On a closed group the returned task is
// already finished and fn never runs.
func (g *Group) Every(interval time.Duration, fn func(context.Context)) *Task {
	return g.add(func(ctx context.Context) *Task { return Every(ctx, interval, fn) })
}

// After schedules a one-shot task.
func (g *Group) After(delay time.Duration, fn func(context.Context)) *Task {
	return g.add(func(ctx context.Context) *Task { return After(ctx, delay, fn) })
}

func (g *Group) add(start func(context.Context) *Task) *Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return stoppedTask()
	}
	live := g.tasks[:0]
	for _, t := range g.tasks {
		select {
		case <-t.done:
		default:
			live = append(live, t)
		}
	}
	t := start(g.ctx)
	g.tasks = append(live, t)
	return t
}

// Close stops every task and waits for them to return. Close must not be
// called from a task callback.
func (g *Group) Close() {
	g.mu.Lock()
	g.closed = true
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()

	g.cancel()
	for _, t := range tasks {
		t.Wait()
	}
}

// Len reports how many tasks are still running.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, t := range g.tasks {
		select {
		case <-t.done:
		default:
			n++
		}
	}
	return n
}
