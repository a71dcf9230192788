// Package timeouts holds the deadlines applied to handler and worker I/O.
//
// Values start at the defaults below and may be replaced once at startup
// with Configure. Pick the tier by the shape of the operation:
//   - Ping: health checks
//   - Short: single-document reads and conditional updates
//   - Medium: list queries and aggregations
//   - Long: booking creation and other multi-collection writes
//   - Upstream: calls to the meeting provider
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing     = 2 * time.Second
	DefaultShort    = 5 * time.Second
	DefaultMedium   = 10 * time.Second
	DefaultLong     = 30 * time.Second
	DefaultUpstream = 15 * time.Second
)

var (
	mu       sync.RWMutex
	ping     = DefaultPing
	short    = DefaultShort
	medium   = DefaultMedium
	long     = DefaultLong
	upstream = DefaultUpstream
)

func get(d *time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return *d
}

// Ping is the deadline for health checks.
func Ping() time.Duration { return get(&ping) }

// Short is the deadline for single-document operations.
func Short() time.Duration { return get(&short) }

// Medium is the deadline for list queries.
func Medium() time.Duration { return get(&medium) }

// Long is the deadline for writes spanning several collections.
func Long() time.Duration { return get(&long) }

// Upstream is the deadline for one meeting provider round trip.
func Upstream() time.Duration { return get(&upstream) }

// Config overrides timeout tiers. Zero fields keep the current value.
type Config struct {
	Ping     time.Duration
	Short    time.Duration
	Medium   time.Duration
	Long     time.Duration
	Upstream time.Duration
}

// Configure applies cfg. Call it before handlers are built.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&ping, cfg.Ping)
	set(&short, cfg.Short)
	set(&medium, cfg.Medium)
	set(&long, cfg.Long)
	set(&upstream, cfg.Upstream)
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, long, upstream = DefaultPing, DefaultShort, DefaultMedium, DefaultLong, DefaultUpstream
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Long: long, Upstream: upstream}
}

// WithTimeout wraps context.WithTimeout and logs a warning from the returned
// cancel func when the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create booking")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
