package ports

import (
	"context"
	"time"
)

// Port: a short-lived cache for serialized slot listings. Keys must embed the
// pricing epoch so no entry outlives a configuration or stop-set version.
type SlotCache interface {
	// Get returns ok=false on a miss. Cache errors are soft: callers log and
	// recompute.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
