package ports

import "context"

// KeyValueStore persists small string values across process restarts, the
// way a browser keeps localStorage. Get returns ok=false for missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
