package storage

import "context"

// Slot is the durable key-value facility the cart store writes its
// serialized snapshot to. Read reports absence separately from failure so
// a missing key on first run is not an error.
type Slot interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
}
