package repository

import (
	"context"
)

// ProjectionStore abstracts the backing key-value tree. Every logical fact
// in the system lives as several projections at independent paths; the
// coordinators keep them consistent, and ApplyMulti is the only consistency
// primitive the store offers.
type ProjectionStore interface {
	// Get reads the node at path into dest. Returns a NOT_FOUND AppError
	// when the node is absent.
	Get(ctx context.Context, path string, dest interface{}) error

	// Set overwrites the node at path.
	Set(ctx context.Context, path string, value interface{}) error

	// Delete removes the node at path. Deleting an absent node is not an
	// error.
	Delete(ctx context.Context, path string) error

	// ApplyMulti applies every path->value entry as a single atomic unit;
	// a nil value deletes the path. On failure no path is mutated.
	ApplyMulti(ctx context.Context, updates map[string]interface{}) error

	// Push appends value under path with a store-generated unique child key
	// and returns that key. Concurrent pushes never collide.
	Push(ctx context.Context, path string, value interface{}) (string, error)
}
