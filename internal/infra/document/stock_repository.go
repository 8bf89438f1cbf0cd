package document

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/google/uuid"
)

type StockRepositoryImpl struct {
	s *session
}

func (r *StockRepositoryImpl) FindByProductID(ctx context.Context, productID string) (*entity.Stock, error) {
	id, found, err := r.s.get(ctx, r.s.keys.StockByProduct(productID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.NewNotFoundError(entity.StockEntity, productID)
	}
	var doc stockDoc
	found, err = r.s.getDoc(ctx, r.s.keys.Stock(id), &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.NewNotFoundError(entity.StockEntity, productID)
	}
	return entity.RestoreStock(doc.ID, doc.ProductID, doc.Quantity), nil
}

func (r *StockRepositoryImpl) Save(_ context.Context, stock *entity.Stock) error {
	id := uuid.NewString()
	err := r.s.putDoc(r.s.keys.Stock(id), stockDoc{
		ID:        id,
		ProductID: stock.ProductID(),
		Quantity:  stock.Quantity(),
	})
	if err != nil {
		return err
	}
	if err := r.s.putString(r.s.keys.StockByProduct(stock.ProductID()), id); err != nil {
		return err
	}
	stock.AssignID(id)
	return nil
}

func (r *StockRepositoryImpl) Update(ctx context.Context, stock *entity.Stock) error {
	key := r.s.keys.Stock(stock.ID())
	var doc stockDoc
	found, err := r.s.getDoc(ctx, key, &doc)
	if err != nil {
		return err
	}
	if !found {
		return entity.NewNotFoundError(entity.StockEntity, stock.ID())
	}
	doc.Quantity = stock.Quantity()
	return r.s.putDoc(key, doc)
}
