package kv

import "context"

// Store is the key-value persistence boundary used for the roster, the
// bookings and the logged-in identity. Values are opaque bytes; see Save and
// Load for the msgpack codec used on top of it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
