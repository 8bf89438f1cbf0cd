package outbound

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
)

type ProductRepository interface {
	FindAll(ctx context.Context) ([]*entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	Save(ctx context.Context, product *entity.Product) error
}
