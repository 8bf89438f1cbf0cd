package outbound

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
)

type OrderItemRepository interface {
	FindByID(ctx context.Context, id string) (*entity.OrderItem, error)
	FindByProductAndOrderID(ctx context.Context, productID, orderID string) (*entity.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	Save(ctx context.Context, item *entity.OrderItem) error
	Update(ctx context.Context, item *entity.OrderItem) error
	Delete(ctx context.Context, id string) error
}
