package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. Registry clients use it unless a backend is
// configured, so every call reaches the API.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns the disabled backend.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
