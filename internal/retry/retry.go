// Package retry runs operations with a linear backoff and gives up early on
// validation and authorization failures.
package retry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/BradenHooton/dashgate/internal/models"
	goretry "github.com/sethvargo/go-retry"
)

// Default attempt count and base delay
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

// LinearBackoff waits base*n before the n-th retry.
func LinearBackoff(base time.Duration) goretry.Backoff {
	var attempt atomic.Uint64
	return goretry.BackoffFunc(func() (time.Duration, bool) {
		n := attempt.Add(1)
		return base * time.Duration(n), false
	})
}

// Do runs op up to attempts times. Errors matching models.IsPermanent are
// returned immediately.
func Do(ctx context.Context, attempts int, base time.Duration, op func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := goretry.WithMaxRetries(uint64(attempts-1), LinearBackoff(base))

	return goretry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if models.IsPermanent(err) {
			return err
		}
		return goretry.RetryableError(err)
	})
}
