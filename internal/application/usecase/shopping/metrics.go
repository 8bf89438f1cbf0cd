package shopping

import (
	"context"
	"time"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/DioGolang/GoPOS/pkg/metrics"
	"github.com/shopspring/decimal"
)

type CoordinatorMetricsDecorator struct {
	Next    Coordinator
	Metrics metrics.Metrics
}

func (d *CoordinatorMetricsDecorator) record(useCase string, start time.Time, err error) {
	d.Metrics.RecordUseCaseExecution(useCase, err == nil, time.Since(start))
}

func (d *CoordinatorMetricsDecorator) OpenNewOrder(ctx context.Context) (*entity.Order, error) {
	start := time.Now()
	order, err := d.Next.OpenNewOrder(ctx)
	d.record("OpenNewOrder", start, err)
	return order, err
}

func (d *CoordinatorMetricsDecorator) GetAllProducts(ctx context.Context) ([]*entity.Product, error) {
	start := time.Now()
	products, err := d.Next.GetAllProducts(ctx)
	d.record("GetAllProducts", start, err)
	return products, err
}

func (d *CoordinatorMetricsDecorator) CloseOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	start := time.Now()
	order, err := d.Next.CloseOrder(ctx, orderID)
	d.record("CloseOrder", start, err)
	return order, err
}

func (d *CoordinatorMetricsDecorator) DeleteOrder(ctx context.Context, orderID string) error {
	start := time.Now()
	err := d.Next.DeleteOrder(ctx, orderID)
	d.record("DeleteOrder", start, err)
	return err
}

func (d *CoordinatorMetricsDecorator) GetOrderItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	start := time.Now()
	items, err := d.Next.GetOrderItems(ctx, orderID)
	d.record("GetOrderItems", start, err)
	return items, err
}

func (d *CoordinatorMetricsDecorator) BuyProduct(ctx context.Context, orderID, productID string, quantity int) (*entity.OrderItem, error) {
	start := time.Now()
	item, err := d.Next.BuyProduct(ctx, orderID, productID, quantity)
	d.record("BuyProduct", start, err)
	return item, err
}

func (d *CoordinatorMetricsDecorator) ReturnItem(ctx context.Context, item *entity.OrderItem, quantity int) (*entity.OrderItem, error) {
	start := time.Now()
	updated, err := d.Next.ReturnItem(ctx, item, quantity)
	d.record("ReturnItem", start, err)
	return updated, err
}

func (d *CoordinatorMetricsDecorator) DeleteItem(ctx context.Context, item *entity.OrderItem) error {
	start := time.Now()
	err := d.Next.DeleteItem(ctx, item)
	d.record("DeleteItem", start, err)
	return err
}

func (d *CoordinatorMetricsDecorator) SaveProductAndStock(ctx context.Context, name string, price decimal.Decimal, quantity int) (ProductWithStock, error) {
	start := time.Now()
	out, err := d.Next.SaveProductAndStock(ctx, name, price, quantity)
	d.record("SaveProductAndStock", start, err)
	return out, err
}
