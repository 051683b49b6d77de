package sched

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markerJob(order *[]int, id int) job {
	return funcJob(func(*Worker) { *order = append(*order, id) })
}

func TestDeque_OwnerPopsLIFO(t *testing.T) {
	d := &deque{}
	var order []int
	for i := 1; i <= 3; i++ {
		d.push(markerJob(&order, i))
	}
	require.Equal(t, 3, d.size())

	for i := 0; i < 3; i++ {
		j, ok := d.pop()
		require.True(t, ok)
		j.execute(nil)
	}
	assert.Equal(t, []int{3, 2, 1}, order)

	_, ok := d.pop()
	assert.False(t, ok)
}

func TestDeque_ThiefStealsFIFO(t *testing.T) {
	d := &deque{}
	var order []int
	for i := 1; i <= 3; i++ {
		d.push(markerJob(&order, i))
	}

	for i := 0; i < 3; i++ {
		j, ok := d.steal()
		require.True(t, ok)
		j.execute(nil)
	}
	assert.Equal(t, []int{1, 2, 3}, order)

	_, ok := d.steal()
	assert.False(t, ok)
}

func TestDeque_PushAll(t *testing.T) {
	d := &deque{}
	var order []int
	d.pushAll([]job{markerJob(&order, 1), markerJob(&order, 2)})
	assert.Equal(t, 2, d.size())

	j, ok := d.steal()
	require.True(t, ok)
	j.execute(nil)
	assert.Equal(t, []int{1}, order)
}

func TestDeque_ConcurrentStealersExactlyOnce(t *testing.T) {
	const total = 1000
	d := &deque{}
	var executed atomic.Int64
	for i := 0; i < total; i++ {
		d.push(funcJob(func(*Worker) { executed.Add(1) }))
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				j, ok := d.steal()
				if !ok {
					return
				}
				j.execute(nil)
			}
		}()
	}
	// owner drains its own end concurrently
	for {
		j, ok := d.pop()
		if !ok {
			break
		}
		j.execute(nil)
	}
	wg.Wait()

	assert.Equal(t, int64(total), executed.Load())
	assert.Equal(t, 0, d.size())
}
