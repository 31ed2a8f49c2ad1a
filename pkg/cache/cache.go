// Package cache implements the request-coalescing cache that shields the
// market data pipeline from upstream rate limits. Entries carry two windows:
// a freshness window during which the value is authoritative, and a longer
// staleness window during which the value may still be served as a fallback
// when the producer is rate limited.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/syncx"
)

// State describes how a Fetch call was satisfied.
type State string

const (
	// StateHit means a fresh entry was returned without invoking the producer.
	StateHit State = "hit"
	// StateStale means a past-freshness value was served, either because the
	// caller joined another caller's in-flight fetch or because the producer
	// was rate limited and a stale entry was still within its window.
	StateStale State = "stale"
	// StateMiss means this caller invoked the producer and stored the result.
	StateMiss State = "miss"
)

// Policy controls entry lifetime and the recoverable-error signal for one key.
type Policy struct {
	Fresh time.Duration
	Stale time.Duration
	// IsRateLimit identifies producer errors that may be answered with a
	// stale entry instead of propagating. Nil disables stale fallback.
	IsRateLimit func(error) bool
}

// WithRateLimitSignal returns a copy of the policy with the signal attached.
func (p Policy) WithRateLimitSignal(fn func(error) bool) Policy {
	p.IsRateLimit = fn
	return p
}

type entry struct {
	value      any
	freshUntil time.Time
	staleUntil time.Time
}

// Cache is a process-local coalescing cache. Every instance owns its own
// entry map and in-flight registry, so tests can construct isolated caches.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	flights syncx.SingleFlight
	clock   func() time.Time
}

// Option customises a Cache.
type Option func(*Cache)

// WithClock injects a time source, used by tests to step through windows.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New constructs an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		flights: syncx.NewSingleFlight(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// outcome is the value threaded through the single-flight group so joiners
// can distinguish how the shared result was obtained.
type outcome struct {
	value any
	state State
}

// Fetch returns the cached value for key, coalescing concurrent producers.
//
// A fresh entry short-circuits with StateHit. Otherwise at most one caller
// runs the producer per key; everyone else awaits the same result. The
// producer runs on a cancellation-detached context: once a fetch is issued it
// settles regardless of the caller, and its outcome populates the cache for
// the benefit of later callers.
func (c *Cache) Fetch(ctx context.Context, key string, pol Policy, producer func(context.Context) (any, error)) (any, State, error) {
	if e, ok := c.lookup(key); ok && c.clock().Before(e.freshUntil) {
		return e.value, StateHit, nil
	}

	detached := context.WithoutCancel(ctx)
	v, executed, err := c.flights.DoEx(key, func() (any, error) {
		// Re-check under the flight: a racing caller may have refreshed the
		// entry between our lookup and acquiring the flight.
		if e, ok := c.lookup(key); ok && c.clock().Before(e.freshUntil) {
			return outcome{value: e.value, state: StateHit}, nil
		}

		val, perr := producer(detached)
		now := c.clock()
		if perr != nil {
			if pol.IsRateLimit != nil && pol.IsRateLimit(perr) {
				if e, ok := c.lookup(key); ok && now.Before(e.staleUntil) {
					return outcome{value: e.value, state: StateStale}, nil
				}
			}
			return nil, perr
		}

		c.store(key, val, now.Add(pol.Fresh), now.Add(pol.Stale))
		return outcome{value: val, state: StateMiss}, nil
	})
	if err != nil {
		return nil, StateMiss, err
	}

	out := v.(outcome)
	if !executed && out.state == StateMiss {
		// This caller awaited someone else's fetch rather than producing.
		out.state = StateStale
	}
	return out.value, out.state, nil
}

// Peek returns the raw entry value for key when one exists, regardless of
// freshness. Intended for diagnostics and tests.
func (c *Cache) Peek(key string) (any, bool) {
	e, ok := c.lookup(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) store(key string, value any, freshUntil, staleUntil time.Time) {
	if staleUntil.Before(freshUntil) {
		staleUntil = freshUntil
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, freshUntil: freshUntil, staleUntil: staleUntil}
	c.mu.Unlock()
}
