// Package resilience provides reliability patterns for the pipeline's
// external calls: circuit breakers around feed fetches and LLM completions,
// and retry logic with exponential backoff and jitter.
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchFeed()
//	})
//
//	err := retry.WithBackoff(ctx, retry.LLMAPIConfig(), func() error {
//	    return callBackend()
//	})
package resilience
