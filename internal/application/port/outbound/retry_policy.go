package outbound

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy reruns a whole unit of work when the storage engine reports a
// write conflict that left nothing behind. Business errors are never
// retried.
type RetryPolicy struct {
	MaxRetries int
	BaseWait   time.Duration
	MaxWait    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 32, BaseWait: 2 * time.Millisecond, MaxWait: 250 * time.Millisecond}
}

// Execute calls attempt until it succeeds, fails with a non-conflict error
// or the retries run out. onRetry is invoked before each wait.
func (p RetryPolicy) Execute(
	ctx context.Context,
	isConflict func(error) bool,
	attempt func() error,
	onRetry func(attempt int, wait time.Duration, err error),
) error {
	var err error
	for n := 0; n <= p.MaxRetries; n++ {
		err = attempt()
		if err == nil || !isConflict(err) {
			return err
		}
		if n == p.MaxRetries {
			break
		}
		wait := p.backoff(n)
		if onRetry != nil {
			onRetry(n+1, wait, err)
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return ctx.Err()
		}
	}
	return err
}

// backoff grows exponentially up to MaxWait; the upper half is jittered so
// that conflicting callers do not wake up together.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	wait := p.BaseWait * time.Duration(math.Pow(2, float64(min(attempt, 20))))
	if p.MaxWait > 0 && wait > p.MaxWait {
		wait = p.MaxWait
	}
	if wait <= 1 {
		return wait
	}
	half := wait / 2
	return half + rand.N(half+1)
}
