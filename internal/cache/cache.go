// Package cache holds short-lived copies of rarely changing lists such as the
// service catalog and offer lookups. Values are stored as JSON so the memory
// and redis backends behave the same.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

type Cache interface {
	// Get decodes the cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. Cache failures are logged and never fail the caller.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var v T
	if c == nil {
		return load(ctx)
	}

	found, err := c.Get(ctx, key, &v)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache read failed")
	}
	if found && err == nil {
		return v, nil
	}

	v, err = load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return v, nil
}

// Invalidate drops keys, logging instead of returning failures.
func Invalidate(ctx context.Context, c Cache, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		logrus.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}

func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func decode(data []byte, dst any) error {
	return json.Unmarshal(data, dst)
}
