package outbound

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
)

type StockRepository interface {
	FindByProductID(ctx context.Context, productID string) (*entity.Stock, error)
	Save(ctx context.Context, stock *entity.Stock) error
	Update(ctx context.Context, stock *entity.Stock) error
}
