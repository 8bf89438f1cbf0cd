package database

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/google/uuid"
)

type ProductRepositoryImpl struct {
	*Queries
}

func NewProductRepository(q *Queries) *ProductRepositoryImpl {
	return &ProductRepositoryImpl{Queries: q}
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]*entity.Product, len(rows))
	for i, row := range rows {
		products[i] = entity.RestoreProduct(row.ID.String(), row.Name, row.Price)
	}
	return products, nil
}

func (r *ProductRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	productID, err := parseID(entity.ProductEntity, id)
	if err != nil {
		return nil, err
	}
	row, err := r.GetProduct(ctx, productID)
	if err != nil {
		return nil, notFound(err, entity.ProductEntity, id)
	}
	return entity.RestoreProduct(row.ID.String(), row.Name, row.Price), nil
}

func (r *ProductRepositoryImpl) Save(ctx context.Context, product *entity.Product) error {
	id, err := r.CreateProduct(ctx, CreateProductParams{
		Name:  product.Name(),
		Price: product.Price(),
	})
	if err != nil {
		return err
	}
	product.AssignID(id.String())
	return nil
}

func productUUID(id string) (uuid.UUID, error) {
	return parseID(entity.ProductEntity, id)
}
