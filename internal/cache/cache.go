package cache

import (
	"context"
	"time"
)

// Cache is a JSON key-value store. A ttl of zero keeps the value until deleted.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
