package cache

import (
	"context"
	"errors"

	"github.com/pasarde/recipe-app/internal/pkg/common"

	"go.uber.org/zap"
)

// Remember returns the cached value for (namespace, key) or calls load.
// Only results load marks as cacheable are stored, so provider failures are
// retried on the next request instead of being memoised. A nil store
// disables caching.
func Remember[T any](ctx context.Context, store Store, namespace, key string, load func() (T, bool)) T {
	if store == nil {
		v, _ := load()
		return v
	}

	if raw, err := store.Get(ctx, namespace, key); err == nil {
		var cached T
		if err := common.ParseJSONBytes([]byte(raw), &cached); err == nil {
			return cached
		}
		common.LogWarn("discarding undecodable cache entry",
			zap.String("namespace", namespace),
		)
	} else if !errors.Is(err, ErrMiss) {
		common.LogWarn("cache lookup failed",
			zap.String("namespace", namespace),
			zap.Error(err),
		)
	}

	v, cacheable := load()
	if !cacheable {
		return v
	}

	data, err := common.MarshalJSON(v)
	if err != nil {
		return v
	}
	if err := store.Set(ctx, namespace, key, string(data)); err != nil {
		common.LogWarn("cache store failed",
			zap.String("namespace", namespace),
			zap.Error(err),
		)
	}
	return v
}
