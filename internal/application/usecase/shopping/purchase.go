package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/DioGolang/GoPOS/pkg/metrics"
	"github.com/shopspring/decimal"
)

// BuyProduct takes quantity units of a product out of stock and adds them
// to the order, creating the order item on the first purchase.
//
// The stock check and the decrement run in the same unit of work, so the
// storage engine's isolation is what keeps two terminals from selling the
// same units.
func (s *ServiceImpl) BuyProduct(ctx context.Context, orderID, productID string, quantity int) (*entity.OrderItem, error) {
	if quantity <= 0 {
		return nil, entity.ErrQuantityMustBePos
	}

	item, err := outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) (*entity.OrderItem, error) {
		order, err := p.Order().FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := order.EnsureAcceptsItems(); err != nil {
			return nil, err
		}
		product, err := p.Product().FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		stock, err := p.Stock().FindByProductID(ctx, product.ID())
		if err != nil {
			return nil, err
		}

		if err := stock.Decrease(quantity, product.Name()); err != nil {
			return nil, err
		}
		if err := p.Stock().Update(ctx, stock); err != nil {
			return nil, fmt.Errorf("failed to update stock: %w", err)
		}

		item, err := p.OrderItem().FindByProductAndOrderID(ctx, product.ID(), order.ID())
		switch {
		case errors.Is(err, entity.ErrNotFound):
			item, err = entity.NewOrderItem(product, order, quantity)
			if err != nil {
				return nil, err
			}
			if err := p.OrderItem().Save(ctx, item); err != nil {
				return nil, fmt.Errorf("failed to save order item: %w", err)
			}
		case err != nil:
			return nil, err
		default:
			if err := item.IncreaseQuantity(quantity); err != nil {
				return nil, err
			}
			if err := p.OrderItem().Update(ctx, item); err != nil {
				return nil, fmt.Errorf("failed to update order item: %w", err)
			}
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStockMovement(metrics.StockOut, quantity)
	return item, nil
}

// ReturnItem gives back part of an item. The caller's copy must still match
// the stored item, otherwise the return is refused as stale.
func (s *ServiceImpl) ReturnItem(ctx context.Context, callerItem *entity.OrderItem, quantity int) (*entity.OrderItem, error) {
	if callerItem == nil || callerItem.ID() == "" {
		return nil, entity.ErrIDIsRequired
	}
	if quantity <= 0 {
		return nil, entity.ErrQuantityMustBePos
	}

	item, err := outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) (*entity.OrderItem, error) {
		item, err := p.OrderItem().FindByID(ctx, callerItem.ID())
		if err != nil {
			return nil, err
		}
		if !item.MatchesSnapshot(callerItem) {
			return nil, &entity.StaleDataError{ItemID: item.ID()}
		}

		if err := item.DecreaseQuantity(quantity); err != nil {
			return nil, fmt.Errorf("cannot return %d of %d units, delete the item instead: %w",
				quantity, item.Quantity(), err)
		}
		if err := p.OrderItem().Update(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to update order item: %w", err)
		}

		if _, err := s.restock(ctx, p.Stock(), item.ProductID(), quantity); err != nil {
			return nil, err
		}
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStockMovement(metrics.StockIn, quantity)
	return item, nil
}

// DeleteItem removes an item and restocks the quantity that is actually
// stored, whatever the caller's copy says.
func (s *ServiceImpl) DeleteItem(ctx context.Context, callerItem *entity.OrderItem) error {
	if callerItem == nil || callerItem.ID() == "" {
		return entity.ErrIDIsRequired
	}

	restocked, err := outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) (int, error) {
		item, err := p.OrderItem().FindByID(ctx, callerItem.ID())
		if err != nil {
			return 0, err
		}
		ok, err := s.restock(ctx, p.Stock(), item.ProductID(), item.Quantity())
		if err != nil {
			return 0, err
		}
		if err := p.OrderItem().Delete(ctx, item.ID()); err != nil {
			return 0, fmt.Errorf("failed to delete order item: %w", err)
		}
		if !ok {
			return 0, nil
		}
		return item.Quantity(), nil
	})
	if err != nil {
		return err
	}
	s.metrics.RecordStockMovement(metrics.StockIn, restocked)
	return nil
}

// SaveProductAndStock adds a product to the catalog together with its
// initial stock. Input is validated before any storage access.
func (s *ServiceImpl) SaveProductAndStock(ctx context.Context, name string, price decimal.Decimal, quantity int) (ProductWithStock, error) {
	if err := validateNewProduct(name, price, quantity); err != nil {
		return ProductWithStock{}, err
	}

	return outbound.Run(ctx, s.uow, func(p outbound.RepositoryProvider) (ProductWithStock, error) {
		product, err := entity.NewProduct(name, price)
		if err != nil {
			return ProductWithStock{}, err
		}
		if err := p.Product().Save(ctx, product); err != nil {
			return ProductWithStock{}, fmt.Errorf("failed to save product: %w", err)
		}

		stock, err := entity.NewStock(product.ID(), quantity)
		if err != nil {
			return ProductWithStock{}, err
		}
		if err := p.Stock().Save(ctx, stock); err != nil {
			return ProductWithStock{}, fmt.Errorf("failed to save stock: %w", err)
		}
		return ProductWithStock{Product: product, Stock: stock}, nil
	})
}

func validateNewProduct(name string, price decimal.Decimal, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return entity.ErrNameIsRequired
	}
	if !price.IsPositive() {
		return entity.ErrPriceMustBePos
	}
	if quantity <= 0 {
		return entity.ErrQuantityMustBePos
	}
	return nil
}
