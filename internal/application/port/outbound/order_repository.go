package outbound

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	Save(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	// Delete fails with entity.ErrOrderHasItems while any item references
	// the order.
	Delete(ctx context.Context, id string) error
}
