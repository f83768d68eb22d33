package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/config"
)

// AllTasksKey is the key under which the full task listing is cached.
const AllTasksKey = "all-tasks"

// TaskKey returns the key under which a single task is cached.
func TaskKey(id uuid.UUID) string {
	return "task:" + id.String()
}

// Cache is a concurrency-safe key/value store for read results.
type Cache interface {
	// Get returns the cached value for key and whether it was present.
	Get(ctx context.Context, key string) (any, bool)

	// Put stores value under key, replacing any previous entry.
	Put(ctx context.Context, key string, value any)

	// ClearAll removes every entry.
	ClearAll(ctx context.Context)

	// Len reports the number of entries currently held.
	Len() int
}

// ComputeFn produces the value for a cache miss.
type ComputeFn[T any] func(ctx context.Context) (T, error)

// GetOrCompute returns the cached value for key when present and of type T.
// Otherwise it calls fn and stores the result. Errors from fn are returned
// as-is and nothing is cached for them.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, fn ComputeFn[T]) (T, error) {
	if cached, ok := c.Get(ctx, key); ok {
		if value, ok := cached.(T); ok {
			return value, nil
		}
		slog.Default().WarnContext(ctx, "cached value has unexpected type, recomputing",
			slog.String("key", key),
			slog.String("type", fmt.Sprintf("%T", cached)))
	}

	value, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.Put(ctx, key, value)
	return value, nil
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory, "":
		return NewMemory(), nil
	case config.CacheBackendSturdyc:
		s, err := NewSturdyc(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.CacheBackendDisabled:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
