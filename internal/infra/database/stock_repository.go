package database

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
)

type StockRepositoryImpl struct {
	*Queries
}

func NewStockRepository(q *Queries) *StockRepositoryImpl {
	return &StockRepositoryImpl{Queries: q}
}

// FindByProductID locks the stock row until the transaction ends.
func (r *StockRepositoryImpl) FindByProductID(ctx context.Context, productID string) (*entity.Stock, error) {
	pid, err := productUUID(productID)
	if err != nil {
		return nil, entity.NewNotFoundError(entity.StockEntity, productID)
	}
	row, err := r.GetStockByProductForUpdate(ctx, pid)
	if err != nil {
		return nil, notFound(err, entity.StockEntity, productID)
	}
	return entity.RestoreStock(row.ID.String(), row.ProductID.String(), int(row.Quantity)), nil
}

func (r *StockRepositoryImpl) Save(ctx context.Context, stock *entity.Stock) error {
	pid, err := productUUID(stock.ProductID())
	if err != nil {
		return err
	}
	id, err := r.CreateStock(ctx, CreateStockParams{
		ProductID: pid,
		Quantity:  int64(stock.Quantity()),
	})
	if err != nil {
		return err
	}
	stock.AssignID(id.String())
	return nil
}

func (r *StockRepositoryImpl) Update(ctx context.Context, stock *entity.Stock) error {
	id, err := parseID(entity.StockEntity, stock.ID())
	if err != nil {
		return err
	}
	rows, err := r.UpdateStockQuantity(ctx, UpdateStockQuantityParams{
		ID:       id,
		Quantity: int64(stock.Quantity()),
	})
	return affected(rows, err, entity.StockEntity, stock.ID())
}
