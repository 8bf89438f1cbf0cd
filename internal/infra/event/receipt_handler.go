package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DioGolang/GoPOS/internal/application/usecase/shopping"
	"github.com/DioGolang/GoPOS/pkg/logger"
)

// NewReceiptHandler logs a sales receipt for every OrderClosed event.
func NewReceiptHandler(log logger.Logger) MessageHandler {
	return func(ctx context.Context, msg []byte, headers map[string]interface{}) error {
		var payload shopping.OrderClosedPayload
		if err := json.Unmarshal(msg, &payload); err != nil {
			return fmt.Errorf("%w: %v", ErrPoisonMessage, err)
		}
		if payload.OrderID == "" {
			return fmt.Errorf("%w: order id is missing", ErrPoisonMessage)
		}

		units := 0
		for _, line := range payload.Items {
			units += line.Quantity
			log.Debug(ctx, "Receipt line",
				logger.String("order_id", payload.OrderID),
				logger.String("product_id", line.ProductID),
				logger.Int("quantity", line.Quantity),
				logger.String("subtotal", line.Subtotal.StringFixed(2)),
			)
		}

		total, _ := payload.Total.Float64()
		log.Info(ctx, "Sales receipt",
			logger.String("order_id", payload.OrderID),
			logger.Int("lines", len(payload.Items)),
			logger.Int("units", units),
			logger.Float64("total", total),
			logger.String("closed_at", payload.ClosedAt.Format("2006-01-02T15:04:05Z07:00")),
		)
		return nil
	}
}
