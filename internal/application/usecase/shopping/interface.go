package shopping

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Coordinator is the storage-agnostic shopping core used by terminals.
// Every method runs in its own unit of work.
type Coordinator interface {
	OpenNewOrder(ctx context.Context) (*entity.Order, error)
	GetAllProducts(ctx context.Context) ([]*entity.Product, error)
	CloseOrder(ctx context.Context, orderID string) (*entity.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
	GetOrderItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)

	BuyProduct(ctx context.Context, orderID, productID string, quantity int) (*entity.OrderItem, error)
	ReturnItem(ctx context.Context, item *entity.OrderItem, quantity int) (*entity.OrderItem, error)
	DeleteItem(ctx context.Context, item *entity.OrderItem) error
	SaveProductAndStock(ctx context.Context, name string, price decimal.Decimal, quantity int) (ProductWithStock, error)
}
