package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"voteparty/internal/ports/output"
)

func TestMultiNotifier(t *testing.T) {
	boom := errors.New("boom")
	var got []string
	record := func(name string, err error) output.LifecycleNotifier {
		return notifierFunc(func(_ context.Context, e output.LifecycleEvent) error {
			got = append(got, name+":"+e.State)
			return err
		})
	}
	m := MultiNotifier{record("a", boom), nil, record("b", nil)}

	err := m.Notify(context.Background(), output.LifecycleEvent{State: "approved"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a:approved", "b:approved"}, got)
	assert.NoError(t, MultiNotifier(nil).Notify(context.Background(), output.LifecycleEvent{}))
}

func TestFanout_ReentrantPushKeepsOrder(t *testing.T) {
	var got []int
	var f *fanout[int]
	f = newFanout(func(v int) {
		got = append(got, v)
		if v == 1 {
			f.push(3)
			f.flush()
			got = append(got, 2)
		}
	})

	f.push(1)
	f.flush()

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFanout_ConcurrentPushesAllDelivered(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]bool{}
	f := newFanout(func(v int) {
		mu.Lock()
		defer mu.Unlock()
		seen[v] = true
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.push(i)
			f.flush()
		}(i)
	}
	wg.Wait()
	f.flush()

	assert.Len(t, seen, 50)
}

func TestFanout_StopDropsQueued(t *testing.T) {
	var got []int
	f := newFanout(func(v int) { got = append(got, v) })
	f.push(1)
	f.stop()
	f.push(2)
	f.flush()

	assert.Empty(t, got)
}
