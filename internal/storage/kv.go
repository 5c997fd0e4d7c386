package storage

import "context"

// KV is the opaque key-value store the gateway persists through.
//
// Get reports found=false when the key has never been written; that is not
// an error. Implementations return errors only for store-level failures
// (I/O, driver, corruption of the store itself).
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
