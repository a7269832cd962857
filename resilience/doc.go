// Package resilience retries failing operations with exponential backoff.
//
//	res, err := resilience.Retry(ctx, resilience.RetryConfig{MaxAttempts: 3},
//	    func(attempt int) (*process.Result, error) {
//	        return process.Run(ctx, cmd)
//	    })
//
// The last attempt's result is returned together with its error so callers
// can still inspect the output of a run that never succeeded.
package resilience
