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

func (s *ServiceImpl) OpenNewOrder(ctx context.Context) (*entity.Order, error) {
	order, err := outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) (*entity.Order, error) {
		order := entity.NewOrder()
		if err := p.Order().Save(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to save order: %w", err)
		}
		return order, nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordOrderOpened()
	return order, nil
}

func (s *ServiceImpl) GetAllProducts(ctx context.Context) ([]*entity.Product, error) {
	return outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) ([]*entity.Product, error) {
		return p.Product().FindAll(ctx)
	})
}

type closedOrder struct {
	order *entity.Order
	items []*entity.OrderItem
}

// CloseOrder checks the order out. Closing an order twice is accepted.
func (s *ServiceImpl) CloseOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	closed, err := outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) (closedOrder, error) {
		order, err := p.Order().FindByID(ctx, orderID)
		if err != nil {
			return closedOrder{}, err
		}
		if err := order.Close(); err != nil {
			return closedOrder{}, fmt.Errorf("domain rule violation: %w", err)
		}
		if err := p.Order().Update(ctx, order); err != nil {
			return closedOrder{}, fmt.Errorf("failed to update order: %w", err)
		}
		items, err := p.OrderItem().ListByOrderID(ctx, order.ID())
		if err != nil {
			return closedOrder{}, err
		}
		return closedOrder{order: order, items: items}, nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderClosed()
	s.publishOrderClosed(ctx, closed.order, closed.items)
	return closed.order, nil
}

// publishOrderClosed runs after the commit; the checkout stands even when
// the broker is unavailable.
func (s *ServiceImpl) publishOrderClosed(ctx context.Context, order *entity.Order, items []*entity.OrderItem) {
	if s.eventDispatcher == nil {
		return
	}
	event := events.New(OrderClosedEvent)
	event.SetPayload(newOrderClosedPayload(order, items))

	if err := s.eventDispatcher.Dispatch(ctx, event); err != nil {
		s.metrics.IncEventsPublished(OrderClosedEvent, "failure")
		s.logger.Error(ctx, "Failed to publish order closed event",
			logger.String("order_id", order.ID()),
			logger.WithError(err),
		)
		return
	}
	s.metrics.IncEventsPublished(OrderClosedEvent, "success")
}

// DeleteOrder cancels an order: every item is restocked and removed before
// the order itself is deleted. Deleting an unknown order is a no-op.
func (s *ServiceImpl) DeleteOrder(ctx context.Context, orderID string) error {
	restocked, err := outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) (int, error) {
		order, err := p.Order().FindByID(ctx, orderID)
		if errors.Is(err, entity.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}

		items, err := p.OrderItem().ListByOrderID(ctx, order.ID())
		if err != nil {
			return 0, err
		}

		units := 0
		for _, item := range items {
			ok, err := s.restock(ctx, p.Stock(), item.ProductID(), item.Quantity())
			if err != nil {
				return 0, err
			}
			if ok {
				units += item.Quantity()
			}
			if err := p.OrderItem().Delete(ctx, item.ID()); err != nil {
				return 0, fmt.Errorf("failed to delete order item: %w", err)
			}
		}

		if err := p.Order().Delete(ctx, order.ID()); err != nil {
			return 0, fmt.Errorf("failed to delete order: %w", err)
		}
		return units, nil
	})
	if err != nil {
		return err
	}
	s.metrics.RecordStockMovement(metrics.StockIn, restocked)
	return nil
}

func (s *ServiceImpl) GetOrderItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	return outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) ([]*entity.OrderItem, error) {
		order, err := p.Order().FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return p.OrderItem().ListByOrderID(ctx, order.ID())
	})
}
