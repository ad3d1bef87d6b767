// Package catalogcache wraps a catalog loader in a TTL-plus-stale-window
// cache with backoff on repeated failures, so façades don't re-ingest a
// roster export (or re-fetch one from Redis) on every request.
package catalogcache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Cache serves the current value, refreshing it when stale.
type Cache[T any] interface {
	// Get returns the current value, triggering a refresh if the cached
	// value is older than Config.CacheTime. The returned pointer is shared
	// and must not be modified. If err is nil, the returned pointer is
	// never nil. If a refresh failed but a stale value is still within its
	// stale window, both a pointer and an error are returned.
	Get() (*T, error)
}

// CacheFunc adapts a plain func to Cache.
type CacheFunc[T any] func() (*T, error)

func (fn CacheFunc[T]) Get() (*T, error) { return fn() }

// Backoff decides how long to wait before retrying after a failed refresh.
type Backoff interface {
	Backoff(t time.Time, err error, attempt int) time.Time
}

// BackoffFunc adapts a plain func to Backoff.
type BackoffFunc func(t time.Time, err error, attempt int) time.Time

func (fn BackoffFunc) Backoff(t time.Time, err error, attempt int) time.Time {
	return fn(t, err, attempt)
}

// Config configures Cached.
type Config struct {
	// Timeout bounds a single refresh attempt. Zero uses a 30s default;
	// negative disables the timeout.
	Timeout time.Duration

	// CacheTime is how long a successful value is served before a refresh
	// is attempted. Zero uses a 15 minute default.
	CacheTime time.Duration

	// StaleTime is how much longer a value is still served, alongside the
	// refresh error, once it has passed CacheTime. Zero uses a 2 hour
	// default; negative is clamped to zero, meaning a value is never
	// served past CacheTime.
	StaleTime time.Duration

	// Backoff delays refresh retries after a failure. Nil disables backoff.
	Backoff Backoff

	// Logger receives cache lifecycle events. Nil disables logging.
	Logger *zerolog.Logger
}

// Cached wraps fetch in a Cache honoring cfg's TTL, stale window, and
// backoff policy.
func Cached[T any](cfg Config, fetch func(ctx context.Context) (T, error)) Cache[T] {
	cfg.Timeout = durationDefault(cfg.Timeout, 30*time.Second)
	cfg.CacheTime = durationDefault(cfg.CacheTime, 15*time.Minute)
	cfg.StaleTime = durationDefault(cfg.StaleTime, 2*time.Hour)

	var state struct {
		mu sync.Mutex

		success  time.Time
		successV *T

		failure  time.Time
		failureV error
		failureN int
	}

	if cfg.Logger != nil {
		cfg.Logger.Info().
			Dur("cache_time", cfg.CacheTime).
			Dur("stale_time", cfg.StaleTime).
			Bool("backoff", cfg.Backoff != nil).
			Msg("catalog cache created")
	}

	return CacheFunc[T](func() (*T, error) {
		state.mu.Lock()
		defer state.mu.Unlock()

		now := time.Now()

		if !state.success.IsZero() {
			age := time.Since(state.success)
			if age <= cfg.CacheTime {
				return state.successV, nil
			}
			if age > cfg.CacheTime+cfg.StaleTime {
				if cfg.Logger != nil {
					cfg.Logger.Debug().Dur("age", age).Msg("clearing stale catalog")
				}
				state.success = time.Time{}
				state.successV = nil
			}
		}

		if cfg.Backoff != nil && state.failureN != 0 {
			if until := cfg.Backoff.Backoff(state.failure, state.failureV, state.failureN); !until.IsZero() && now.Before(until) {
				if cfg.Logger != nil {
					cfg.Logger.Debug().Int("attempt", state.failureN).Time("backoff_until", until).Msg("skipping refresh due to backoff")
				}
				return state.successV, state.failureV
			}
		}

		ctx := context.Background()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		v, err := fetch(ctx)
		if err != nil {
			state.failure = now
			state.failureV = err
			state.failureN++
			if cfg.Logger != nil {
				cfg.Logger.Warn().Err(err).Int("attempt", state.failureN).Bool("using_stale", !state.success.IsZero()).Msg("catalog refresh failed")
			}
			return state.successV, state.failureV
		}

		state.failure = time.Time{}
		state.failureV = nil
		state.failureN = 0
		state.success = now
		state.successV = &v
		if cfg.Logger != nil {
			cfg.Logger.Info().Msg("catalog refreshed")
		}
		return state.successV, nil
	})
}

func durationDefault(val, def time.Duration) time.Duration {
	switch {
	case val == 0:
		return def
	case val < 0:
		return 0
	default:
		return val
	}
}
