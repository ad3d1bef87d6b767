package catalogcache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists a serialized catalog blob in Redis, keyed by
// semester, so a process restart can serve the last good catalog without
// waiting on a full re-ingest.
type RedisStore struct {
	KV       *redis.Client
	KeyPrefix string
}

func (s RedisStore) key(semester string) string {
	prefix := s.KeyPrefix
	if prefix == "" {
		prefix = "catalog"
	}
	return fmt.Sprintf("%s:%s", prefix, semester)
}

// Load fetches and unmarshals the stored catalog blob for semester. It
// returns redis.Nil (unwrapped via errors.Is) when nothing is stored yet.
func (s RedisStore) Load(ctx context.Context, semester string, into any) error {
	raw, err := s.KV.Get(ctx, s.key(semester)).Bytes()
	if err != nil {
		return errors.Wrap(err, "fetching cached catalog from redis")
	}
	return errors.Wrap(json.Unmarshal(raw, into), "decoding cached catalog")
}

// Store marshals v and writes it under semester's key with the given TTL.
// A TTL of zero means the key never expires on its own; catalogcache's own
// Cached wrapper is still responsible for deciding when to refresh.
func (s RedisStore) Store(ctx context.Context, semester string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encoding catalog for redis")
	}
	return errors.Wrap(s.KV.Set(ctx, s.key(semester), raw, ttl).Err(), "storing catalog in redis")
}

// RefreshInterval estimates how long a just-built catalog of sectionCount
// sections for a semester should be trusted before re-ingesting. From 50
// sections up it allows roughly an hour per hundred sections; below 50 it
// interpolates linearly from 12 hours at one section down to 1 hour at 49.
// Archived semesters get five times as long. The result is jittered by up
// to 15% and never drops below one hour.
func RefreshInterval(sectionCount int, archived bool) time.Duration {
	base := time.Hour * time.Duration(sectionCount/100)
	if sectionCount < 50 {
		base = interpolateHours(1, 12, 49, 1, sectionCount)
	}

	if archived {
		base *= 5
	}

	variance := base.Seconds() * (rand.Float64() * 0.15)
	if rand.IntN(2) == 0 {
		base -= time.Duration(variance) * time.Second
	} else {
		base += time.Duration(variance) * time.Second
	}

	if base < time.Hour {
		base = time.Hour + time.Duration(rand.IntN(60*15))*time.Second
	}
	return base
}

// interpolateHours linearly interpolates between (x1,y1) and (x2,y2) in
// hours, evaluated at x.
func interpolateHours(x1, y1, x2, y2 float64, x int) time.Duration {
	slope := (y2 - y1) / (x2 - x1)
	hours := slope*(float64(x)-x1) + y1
	return time.Duration(hours * float64(time.Hour))
}
