package event

import (
	"context"
	"fmt"
	"time"

	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/google/uuid"
)

const claimValue = "processing"

type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}

// dedupKey prefers the producer's event id. Messages without one are
// keyed by a name-based UUID of the body.
func dedupKey(handlerName string, msg []byte, headers map[string]interface{}) string {
	if v, ok := headers[HeaderEventID]; ok {
		if id := fmt.Sprint(v); id != "" {
			return "dedup:" + handlerName + ":" + id
		}
	}
	return "dedup:" + handlerName + ":body:" + uuid.NewSHA1(uuid.NameSpaceOID, msg).String()
}

// WrapIdempotency drops messages already claimed by handlerName. The claim
// is released when next fails so that a redelivery can be processed.
func WrapIdempotency(log logger.Logger, store IdempotencyStore, handlerName string, ttl time.Duration, next MessageHandler) MessageHandler {
	release := func(ctx context.Context, key string) {
		if err := store.Del(context.WithoutCancel(ctx), key); err != nil {
			log.Error(ctx, "Failed to release idempotency key",
				logger.String("key", key),
				logger.WithError(err))
		}
	}

	return func(ctx context.Context, msg []byte, headers map[string]interface{}) error {
		key := dedupKey(handlerName, msg, headers)

		fresh, err := store.SetNX(ctx, key, claimValue, ttl)
		switch {
		case err != nil:
			// fail closed: stop consuming rather than risk a duplicate receipt
			log.Error(ctx, "Idempotency store unavailable",
				logger.String("handler", handlerName),
				logger.WithError(err))
			return fmt.Errorf("idempotency store unavailable: %w", err)
		case !fresh:
			log.Info(ctx, "Duplicate event dropped",
				logger.String("handler", handlerName),
				logger.String("key", key))
			return nil
		}

		if err := next(ctx, msg, headers); err != nil {
			log.Warn(ctx, "Handler failed, releasing idempotency key",
				logger.String("key", key),
				logger.WithError(err))
			release(ctx, key)
			return err
		}
		return nil
	}
}
