package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/property-analyzer/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestRegisterAndGet(t *testing.T) {
	r := New(time.Hour, 10)
	metrics := map[string]string{"noi": "$1,000.00"}

	r.Register("a", metrics)
	metrics["noi"] = "changed"

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "$1,000.00", got["noi"], "registry must hold a copy")

	got["noi"] = "mutated"
	again, _ := r.Get("a")
	assert.Equal(t, "$1,000.00", again["noi"], "Get must return a copy")

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegisterReplaces(t *testing.T) {
	r := New(0, 0)
	r.Register("a", map[string]string{"roi": "1.00%"})
	r.Register("a", map[string]string{"roi": "2.00%"})

	got, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2.00%", got["roi"])
	assert.Equal(t, 1, r.Len())
}

func TestExpiry(t *testing.T) {
	clock := newClock()
	r := New(time.Minute, 0, WithClock(clock.Now))

	r.Register("a", map[string]string{"x": "1"})
	clock.Advance(30 * time.Second)
	r.Register("b", map[string]string{"x": "2"})

	_, ok := r.Get("a")
	assert.True(t, ok)

	clock.Advance(45 * time.Second)
	_, ok = r.Get("a")
	assert.False(t, ok, "a should have expired")
	_, ok = r.Get("b")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	assert.Equal(t, 1, r.Purge())
	assert.Equal(t, 0, r.Len())
}

func TestCapacityEvictsOldest(t *testing.T) {
	clock := newClock()
	r := New(0, 2, WithClock(clock.Now))
	before := testutil.ToFloat64(telemetry.RegistryEvictions.WithLabelValues(telemetry.EvictionCapacity))

	r.Register("first", nil)
	clock.Advance(time.Second)
	r.Register("second", nil)
	clock.Advance(time.Second)
	r.Register("third", nil)

	_, ok := r.Get("first")
	assert.False(t, ok)
	_, ok = r.Get("second")
	assert.True(t, ok)
	_, ok = r.Get("third")
	assert.True(t, ok)
	assert.Equal(t, 2, r.Len())

	after := testutil.ToFloat64(telemetry.RegistryEvictions.WithLabelValues(telemetry.EvictionCapacity))
	assert.Equal(t, before+1, after)
}

func TestDelete(t *testing.T) {
	r := New(0, 0)
	r.Register("a", map[string]string{})
	assert.True(t, r.Delete("a"))
	assert.False(t, r.Delete("a"))
	assert.Equal(t, 0, r.Len())
}

func TestConcurrentAccess(t *testing.T) {
	r := New(time.Hour, 50)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				id := fmt.Sprintf("analysis-%d", (worker*200+i)%75)
				r.Register(id, map[string]string{"worker": fmt.Sprint(worker)})
				if got, ok := r.Get(id); ok {
					got["worker"] = "overwritten"
				}
				r.Len()
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), 50)
	for i := 0; i < 75; i++ {
		if got, ok := r.Get(fmt.Sprintf("analysis-%d", i)); ok {
			assert.NotEqual(t, "overwritten", got["worker"])
		}
	}
}
