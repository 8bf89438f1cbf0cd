package event

import (
	"context"
	"time"

	"github.com/DioGolang/GoPOS/pkg/events"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/sony/gobreaker"
)

// publishTimeout bounds a single broker round trip.
const publishTimeout = 5 * time.Second

// NewCircuitBreaker trips after five consecutive failures and probes again
// after timeout.
func NewCircuitBreaker(name string, timeout time.Duration, log logger.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "Circuit breaker changed state",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
}

// BreakerDispatcher stops calling an unhealthy broker and fails fast with
// gobreaker.ErrOpenState instead.
type BreakerDispatcher struct {
	next events.EventDispatcher
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerDispatcher(next events.EventDispatcher, cb *gobreaker.CircuitBreaker) *BreakerDispatcher {
	return &BreakerDispatcher{next: next, cb: cb}
}

func (d *BreakerDispatcher) Dispatch(ctx context.Context, event events.Event) error {
	_, err := d.cb.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return nil, d.next.Dispatch(ctx, event)
	})
	return err
}
