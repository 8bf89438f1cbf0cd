package document

import (
	"context"
	"sort"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/google/uuid"
)

type ProductRepositoryImpl struct {
	s *session
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Product, error) {
	ids, err := r.s.members(ctx, r.s.keys.Products())
	if err != nil {
		return nil, err
	}
	products := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		var doc productDoc
		found, err := r.s.getDoc(ctx, r.s.keys.Product(id), &doc)
		if err != nil {
			return nil, err
		}
		if found {
			products = append(products, entity.RestoreProduct(doc.ID, doc.Name, doc.Price))
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name() == products[j].Name() {
			return products[i].ID() < products[j].ID()
		}
		return products[i].Name() < products[j].Name()
	})
	return products, nil
}

func (r *ProductRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var doc productDoc
	found, err := r.s.getDoc(ctx, r.s.keys.Product(id), &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.NewNotFoundError(entity.ProductEntity, id)
	}
	return entity.RestoreProduct(doc.ID, doc.Name, doc.Price), nil
}

func (r *ProductRepositoryImpl) Save(_ context.Context, product *entity.Product) error {
	id := uuid.NewString()
	err := r.s.putDoc(r.s.keys.Product(id), productDoc{
		ID:    id,
		Name:  product.Name(),
		Price: product.Price(),
	})
	if err != nil {
		return err
	}
	if err := r.s.addMember(r.s.keys.Products(), id); err != nil {
		return err
	}
	product.AssignID(id)
	return nil
}
