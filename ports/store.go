package ports

import (
	"context"
	"time"
)

// Cache is the shared key/value store with per-key TTL that backs both the
// challenge store and the session store. Get returns core.ErrNotFound for a
// missing or evicted key; Delete is idempotent.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
