// Package registry keeps the most recent metrics of each analysis so that
// reporting can look them up by analysis id.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/iwvelando/property-analyzer/internal/telemetry"
	"go.uber.org/zap"
)

type entry struct {
	metrics    map[string]string
	registered time.Time
}

// Registry is a mutex-guarded metrics cache. Entries expire after the TTL
// and the oldest entry is evicted when capacity is reached. The registry
// stores copies, so callers may reuse the maps they pass in or get back.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   *zap.Logger
}

// Option customizes a Registry.
type Option func(*Registry)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a registry. A ttl of zero or less disables expiry; a capacity
// of zero or less disables the size limit.
func New(ttl time.Duration, capacity int, opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[string]entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register stores a copy of metrics under id, replacing any earlier entry.
func (r *Registry) Register(id string, metrics map[string]string) {
	snapshot := copyMetrics(metrics)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.expireLocked(now)
	if _, exists := r.entries[id]; !exists && r.capacity > 0 {
		for len(r.entries) >= r.capacity {
			r.evictOldestLocked()
		}
	}
	r.entries[id] = entry{metrics: snapshot, registered: now}
	telemetry.RegistryEntries.Set(float64(len(r.entries)))
}

// Get returns a copy of the metrics registered under id.
func (r *Registry) Get(id string) (map[string]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	if r.expired(e, r.now()) {
		r.removeLocked(id, telemetry.EvictionExpired)
		return nil, false
	}
	return copyMetrics(e.metrics), true
}

// Delete removes id and reports whether it was present.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	telemetry.RegistryEntries.Set(float64(len(r.entries)))
	return true
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expireLocked(r.now())
	return len(r.entries)
}

// Purge drops expired entries and returns how many were removed.
func (r *Registry) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.expireLocked(r.now())
}

func (r *Registry) expired(e entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.registered) >= r.ttl
}

func (r *Registry) expireLocked(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	removed := 0
	for id, e := range r.entries {
		if r.expired(e, now) {
			r.removeLocked(id, telemetry.EvictionExpired)
			removed++
		}
	}
	return removed
}

func (r *Registry) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	first := true
	for id, e := range r.entries {
		if first || e.registered.Before(oldest) {
			oldestID, oldest, first = id, e.registered, false
		}
	}
	if !first {
		r.removeLocked(oldestID, telemetry.EvictionCapacity)
	}
}

func (r *Registry) removeLocked(id, reason string) {
	delete(r.entries, id)
	telemetry.RegistryEvictions.WithLabelValues(reason).Inc()
	telemetry.RegistryEntries.Set(float64(len(r.entries)))
	r.logger.Debug(fmt.Sprintf("evicted analysis %s", id),
		zap.String("op", "registry.evict"),
		zap.String("reason", reason),
	)
}

func copyMetrics(metrics map[string]string) map[string]string {
	if metrics == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(metrics))
	for k, v := range metrics {
		out[k] = v
	}
	return out
}
