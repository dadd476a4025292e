package summarize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"tweet-takeaways/internal/observability/metrics"
)

// Cache stores accepted remote summaries by prompt hash.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Backend() string
}

// coalescer guarantees at most one remote call in flight per prompt hash
// and serves repeated prompts from the cache.
type coalescer struct {
	group  singleflight.Group
	cache  Cache
	budget time.Duration
	logger *slog.Logger
}

func newCoalescer(cache Cache, budget time.Duration, logger *slog.Logger) *coalescer {
	return &coalescer{cache: cache, budget: budget, logger: logger}
}

// promptKey is the hex sha256 of a prepared prompt.
func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// do returns the cached value for key or runs fn once for all concurrent
// callers of the same key. The shared call is detached from every caller's
// cancellation and bounded by the budget instead; each caller stops waiting
// only when its own ctx ends.
func (c *coalescer) do(ctx context.Context, key string, fn func(context.Context) (string, error)) (string, error) {
	if c.cache != nil {
		v, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.RecordCacheLookup("error")
			c.logger.WarnContext(ctx, "summary cache lookup failed",
				slog.String("backend", c.cache.Backend()),
				slog.String("error", err.Error()))
		case ok:
			metrics.RecordCacheLookup("hit")
			return v, nil
		default:
			metrics.RecordCacheLookup("miss")
		}
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.budget)
		defer cancel()

		v, err := fn(shared)
		if err != nil {
			return "", err
		}
		if c.cache != nil {
			if err := c.cache.Set(shared, key, v); err != nil {
				c.logger.WarnContext(shared, "summary cache store failed",
					slog.String("backend", c.cache.Backend()),
					slog.String("error", err.Error()))
			}
		}
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
