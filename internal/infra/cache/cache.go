// Package cache stores accepted model summaries keyed by prompt hash, either
// in process memory or in Redis so that several replicas share results.
package cache

import (
	"context"
	"time"
)

// Store is a string cache with a fixed entry lifetime.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Backend names the implementation for health output.
	Backend() string
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Noop) Set(context.Context, string, string) error         { return nil }
func (Noop) Backend() string                                   { return "none" }

// DefaultTTL is used when a store is configured without one.
const DefaultTTL = 6 * time.Hour
