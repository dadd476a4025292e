// Package resilience groups the fault tolerance helpers used around outbound
// calls:
//   - circuitbreaker wraps github.com/sony/gobreaker for page fetches and
//     each remote model
//   - retry re-runs an operation with a fixed or exponential delay while a
//     predicate classifies the error as retryable
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.ModelConfig("facebook/bart-large-cnn"))
//	out, err := circuitbreaker.Run(cb, func() (string, error) {
//	    return callModel(ctx)
//	})
//
//	err := retry.WithBackoff(ctx, retry.Fixed(3, 1500*time.Millisecond, isUnusable), func() error {
//	    return attempt(ctx)
//	})
package resilience
