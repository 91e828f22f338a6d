// Package resilience bounds backend requests.
//
// Secret fetches are single-attempt by contract, so the package carries only
// the patterns that limit a request without repeating it:
//
//   - Timeout: ensures an operation completes within a fixed time limit.
//   - Bulkhead: caps the number of requests in flight at once.
//
// Both can be composed with an Executor:
//
//	executor := resilience.NewExecutor(
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 4})),
//	    resilience.WithTimeout(time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return fetchDocument(ctx)
//	})
package resilience
