// Package cache provides response cache backends for the registry client.
//
// # Overview
//
// Caching is opt-in. The registry client talks to a [Cache] and uses
// [NullCache] unless configured otherwise, so by default every call reaches
// the API. Three backends are provided:
//
//   - [NullCache]: never stores anything (the default)
//   - [FileCache]: one JSON file per entry under a directory (CLI use)
//   - [RedisCache]: a shared Redis instance (multi-process or server use)
//
// # Keys
//
// A [Keyer] turns a namespace and a request URL into a cache key. Wrap it in
// [NewScopedKeyer] to isolate entries, for example per API key, so two
// credentials never see each other's responses.
//
// # Clearing
//
// Backends that can enumerate their own entries implement [Clearer].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the payload for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can remove all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
