package application

import (
	"context"
	"sync"
)

// fanout hands queued values to fn in push order, one call at a time. A push
// made from inside fn is delivered after fn returns.
type fanout[T any] struct {
	fn      func(T)
	deliver sync.Mutex

	mu      sync.Mutex
	queue   []T
	stopped bool
}

func newFanout[T any](fn func(T)) *fanout[T] {
	return &fanout[T]{fn: fn}
}

func (f *fanout[T]) push(v T) {
	if f.fn == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.stopped {
		f.queue = append(f.queue, v)
	}
}

func (f *fanout[T]) flush() {
	if f.fn == nil {
		return
	}
	for {
		if !f.deliver.TryLock() {
			return
		}
		for {
			v, ok := f.pop()
			if !ok {
				break
			}
			f.fn(v)
		}
		f.deliver.Unlock()

		f.mu.Lock()
		more := len(f.queue) > 0 && !f.stopped
		f.mu.Unlock()
		if !more {
			return
		}
	}
}

func (f *fanout[T]) pop() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	if f.stopped || len(f.queue) == 0 {
		return zero, false
	}
	v := f.queue[0]
	f.queue[0] = zero
	f.queue = f.queue[1:]
	return v, true
}

// stop drops everything queued and ignores later pushes.
func (f *fanout[T]) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.queue = nil
}

// bind derives a context from ctx that is also cancelled when owner is.
func bind(ctx, owner context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(owner, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
