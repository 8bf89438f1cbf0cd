package event

import (
	"context"
	"errors"
	"time"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/DioGolang/GoPOS/pkg/metrics"
)

// WrapExponentialBackoff retries next in-process with policy's backoff.
// Poison messages fail on the first attempt.
func WrapExponentialBackoff(
	log logger.Logger,
	m metrics.Metrics,
	handlerName string,
	policy outbound.RetryPolicy,
	next MessageHandler,
) MessageHandler {
	return func(ctx context.Context, msg []byte, headers map[string]interface{}) error {
		err := policy.Execute(ctx, isTransient, func() error {
			return next(ctx, msg, headers)
		}, func(attempt int, wait time.Duration, err error) {
			log.Warn(ctx, "Transient failure, retrying",
				logger.String("handler", handlerName),
				logger.Int("attempt", attempt),
				logger.Duration("wait", wait),
				logger.WithError(err),
			)
		})
		if err == nil {
			return nil
		}

		log.Error(ctx, "Giving up on message",
			logger.String("handler", handlerName),
			logger.WithError(err),
		)
		m.IncEventsProcessed(handlerName, "gave_up")
		return err
	}
}

func isTransient(err error) bool {
	return !errors.Is(err, ErrPoisonMessage)
}
