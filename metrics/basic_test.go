package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicProvider_CounterReusedByName(t *testing.T) {
	p := NewBasicProvider()
	a := p.Counter("jobs", WithUnit("1"), WithDescription("executed jobs"))
	b := p.Counter("jobs")
	require.Same(t, a, b)

	a.Add(2)
	b.Add(3)
	assert.Equal(t, int64(5), p.CounterValue("jobs"))
	assert.Zero(t, p.CounterValue("unknown"))
}

func TestBasicProvider_UpDownCounter(t *testing.T) {
	p := NewBasicProvider()
	u := p.UpDownCounter("depth")
	u.Add(4)
	u.Add(-3)
	assert.Equal(t, int64(1), p.UpDownValue("depth"))
	assert.Zero(t, p.UpDownValue("unknown"))
}

func TestBasicHistogram_Snapshot(t *testing.T) {
	p := NewBasicProvider()
	h := p.Histogram("park", WithUnit("seconds")).(*BasicHistogram)

	h.Record(0.5)
	h.Record(2.0)
	h.Record(1.0)

	snap := h.Snapshot()
	assert.Equal(t, int64(3), snap.Count)
	assert.InDelta(t, 3.5, snap.Sum, 1e-9)
	assert.InDelta(t, 0.5, snap.Min, 1e-9)
	assert.InDelta(t, 2.0, snap.Max, 1e-9)
}

func TestBasicCounter_ConcurrentAdds(t *testing.T) {
	p := NewBasicProvider()
	c := p.Counter("hits")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(8000), p.CounterValue("hits"))
}

func TestNoopProvider_Discards(t *testing.T) {
	p := NewNoopProvider()
	// must not panic, must not record anywhere
	p.Counter("a").Add(1)
	p.UpDownCounter("b").Add(-1)
	p.Histogram("c").Record(3.14)
}
