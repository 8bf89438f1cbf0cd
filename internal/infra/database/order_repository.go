package database

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
)

type OrderRepositoryImpl struct {
	*Queries
}

func NewOrderRepository(q *Queries) *OrderRepositoryImpl {
	return &OrderRepositoryImpl{Queries: q}
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	orderID, err := parseID(entity.OrderEntity, id)
	if err != nil {
		return nil, err
	}
	row, err := r.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		return nil, notFound(err, entity.OrderEntity, id)
	}
	return entity.RestoreOrder(row.ID.String(), row.Status)
}

func (r *OrderRepositoryImpl) Save(ctx context.Context, order *entity.Order) error {
	id, err := r.CreateOrder(ctx, order.StatusName())
	if err != nil {
		return err
	}
	order.AssignID(id.String())
	return nil
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, order *entity.Order) error {
	id, err := parseID(entity.OrderEntity, order.ID())
	if err != nil {
		return err
	}
	rows, err := r.UpdateOrderStatus(ctx, UpdateOrderStatusParams{
		ID:     id,
		Status: order.StatusName(),
	})
	return affected(rows, err, entity.OrderEntity, order.ID())
}

// Delete relies on the order_items foreign key to refuse orders that still
// have items.
func (r *OrderRepositoryImpl) Delete(ctx context.Context, id string) error {
	orderID, err := parseID(entity.OrderEntity, id)
	if err != nil {
		return nil
	}
	if _, err := r.DeleteOrder(ctx, orderID); err != nil {
		if isForeignKeyViolation(err) {
			return entity.ErrOrderHasItems
		}
		return err
	}
	return nil
}
