package database

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
)

type OrderItemRepositoryImpl struct {
	*Queries
}

func NewOrderItemRepository(q *Queries) *OrderItemRepositoryImpl {
	return &OrderItemRepositoryImpl{Queries: q}
}

func toOrderItem(row OrderItem) *entity.OrderItem {
	return entity.RestoreOrderItem(
		row.ID.String(),
		row.ProductID.String(),
		row.OrderID.String(),
		row.UnitPrice,
		int(row.Quantity),
		int(row.Version),
	)
}

func (r *OrderItemRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.OrderItem, error) {
	itemID, err := parseID(entity.OrderItemEntity, id)
	if err != nil {
		return nil, err
	}
	row, err := r.GetOrderItemForUpdate(ctx, itemID)
	if err != nil {
		return nil, notFound(err, entity.OrderItemEntity, id)
	}
	return toOrderItem(row), nil
}

func (r *OrderItemRepositoryImpl) FindByProductAndOrderID(ctx context.Context, productID, orderID string) (*entity.OrderItem, error) {
	key := productID + "/" + orderID
	pid, err := parseID(entity.OrderItemEntity, productID)
	if err != nil {
		return nil, entity.NewNotFoundError(entity.OrderItemEntity, key)
	}
	oid, err := parseID(entity.OrderItemEntity, orderID)
	if err != nil {
		return nil, entity.NewNotFoundError(entity.OrderItemEntity, key)
	}
	row, err := r.GetOrderItemByProductAndOrderForUpdate(ctx, GetOrderItemByProductAndOrderForUpdateParams{
		ProductID: pid,
		OrderID:   oid,
	})
	if err != nil {
		return nil, notFound(err, entity.OrderItemEntity, key)
	}
	return toOrderItem(row), nil
}

func (r *OrderItemRepositoryImpl) ListByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	oid, err := parseID(entity.OrderEntity, orderID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.ListOrderItemsByOrder(ctx, oid)
	if err != nil {
		return nil, err
	}
	items := make([]*entity.OrderItem, len(rows))
	for i, row := range rows {
		items[i] = toOrderItem(row)
	}
	return items, nil
}

func (r *OrderItemRepositoryImpl) Save(ctx context.Context, item *entity.OrderItem) error {
	pid, err := parseID(entity.ProductEntity, item.ProductID())
	if err != nil {
		return err
	}
	oid, err := parseID(entity.OrderEntity, item.OrderID())
	if err != nil {
		return err
	}
	id, err := r.CreateOrderItem(ctx, CreateOrderItemParams{
		ProductID: pid,
		OrderID:   oid,
		UnitPrice: item.UnitPrice(),
		Quantity:  int64(item.Quantity()),
		Subtotal:  item.Subtotal(),
		Version:   int64(item.Version()),
	})
	if err != nil {
		return err
	}
	item.AssignID(id.String())
	return nil
}

func (r *OrderItemRepositoryImpl) Update(ctx context.Context, item *entity.OrderItem) error {
	id, err := parseID(entity.OrderItemEntity, item.ID())
	if err != nil {
		return err
	}
	rows, err := r.UpdateOrderItem(ctx, UpdateOrderItemParams{
		ID:       id,
		Quantity: int64(item.Quantity()),
		Subtotal: item.Subtotal(),
		Version:  int64(item.Version()),
	})
	return affected(rows, err, entity.OrderItemEntity, item.ID())
}

func (r *OrderItemRepositoryImpl) Delete(ctx context.Context, id string) error {
	itemID, err := parseID(entity.OrderItemEntity, id)
	if err != nil {
		return nil
	}
	_, err = r.DeleteOrderItem(ctx, itemID)
	return err
}
