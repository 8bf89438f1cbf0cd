package shopping

import (
	"context"
	"errors"
	"fmt"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/DioGolang/GoPOS/pkg/events"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/DioGolang/GoPOS/pkg/metrics"
)

type ServiceImpl struct {
	uow             outbound.UnitOfWork
	eventDispatcher events.EventDispatcher
	metrics         metrics.Metrics
	logger          logger.Logger
}

type Option func(*ServiceImpl)

// WithEventDispatcher publishes OrderClosed after every committed checkout.
func WithEventDispatcher(d events.EventDispatcher) Option {
	return func(s *ServiceImpl) { s.eventDispatcher = d }
}

func WithMetrics(m metrics.Metrics) Option {
	return func(s *ServiceImpl) { s.metrics = m }
}

func NewService(uow outbound.UnitOfWork, log logger.Logger, opts ...Option) *ServiceImpl {
	s := &ServiceImpl{
		uow:     uow,
		metrics: metrics.Noop{},
		logger:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// restock puts quantity units back on the product's stock. A missing stock
// is reported with false and no error.
func (s *ServiceImpl) restock(ctx context.Context, stocks outbound.StockRepository, productID string, quantity int) (bool, error) {
	stock, err := stocks.FindByProductID(ctx, productID)
	if errors.Is(err, entity.ErrNotFound) {
		s.logger.Warn(ctx, "Stock not found, skipping restock",
			logger.String("product_id", productID),
			logger.Int("quantity", quantity),
		)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := stock.Increase(quantity); err != nil {
		return false, err
	}
	if err := stocks.Update(ctx, stock); err != nil {
		return false, fmt.Errorf("failed to update stock: %w", err)
	}
	return true, nil
}
