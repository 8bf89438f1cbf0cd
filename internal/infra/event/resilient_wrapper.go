package event

import (
	"context"
	"errors"
	"time"

	"github.com/DioGolang/GoPOS/pkg/metrics"
	"github.com/sony/gobreaker"
)

// WrapResilientConsumer bounds each handler call with timeout, routes it
// through cb and records the outcome.
func WrapResilientConsumer(
	m metrics.Metrics,
	handlerName string,
	timeout time.Duration,
	cb *gobreaker.CircuitBreaker,
	next MessageHandler,
) MessageHandler {
	return func(ctx context.Context, msg []byte, headers map[string]interface{}) error {
		start := time.Now()

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		_, err := cb.Execute(func() (interface{}, error) {
			return nil, next(ctx, msg, headers)
		})

		m.RecordUseCaseExecution(handlerName, err == nil, time.Since(start))
		switch {
		case err == nil:
			m.IncEventsProcessed(handlerName, "success")
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			m.IncEventsProcessed(handlerName, "rejected")
		default:
			m.IncEventsProcessed(handlerName, "failure")
		}
		return err
	}
}
