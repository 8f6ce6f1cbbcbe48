package cacheapi

import (
	"context"
	"errors"
)

var (
	ErrCacheKeyNotExist = errors.New("cache key not exist")
)

type ICacheGetter[K comparable, V any] interface {
	Get(ctx context.Context, k K) (V, error)
}

type ICacheSetter[K comparable, V any] interface {
	Set(ctx context.Context, k K, v V) error
}

type ICacheDeleter[K comparable] interface {
	Del(ctx context.Context, k K) error
}

type ICache[K comparable, V any] interface {
	ICacheGetter[K, V]
	ICacheSetter[K, V]
	ICacheDeleter[K]
}

// GetOrMiss hides the not-exist sentinel, any other error is returned as is.
func GetOrMiss[K comparable, V any](ctx context.Context, c ICacheGetter[K, V], k K) (V, bool, error) {
	v, err := c.Get(ctx, k)
	if err == nil {
		return v, true, nil
	}
	var defaultV V
	if errors.Is(err, ErrCacheKeyNotExist) {
		return defaultV, false, nil
	}
	return defaultV, false, err
}
