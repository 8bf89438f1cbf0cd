package document

import (
	"context"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/google/uuid"
)

type OrderRepositoryImpl struct {
	s *session
}

func (r *OrderRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var doc orderDoc
	found, err := r.s.getDoc(ctx, r.s.keys.Order(id), &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.NewNotFoundError(entity.OrderEntity, id)
	}
	return entity.RestoreOrder(doc.ID, doc.Status)
}

func (r *OrderRepositoryImpl) Save(_ context.Context, order *entity.Order) error {
	id := uuid.NewString()
	if err := r.s.putDoc(r.s.keys.Order(id), orderDoc{ID: id, Status: order.StatusName()}); err != nil {
		return err
	}
	order.AssignID(id)
	return nil
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, order *entity.Order) error {
	key := r.s.keys.Order(order.ID())
	var doc orderDoc
	found, err := r.s.getDoc(ctx, key, &doc)
	if err != nil {
		return err
	}
	if !found {
		return entity.NewNotFoundError(entity.OrderEntity, order.ID())
	}
	doc.Status = order.StatusName()
	return r.s.putDoc(key, doc)
}

// Delete refuses orders whose item set is not empty, mirroring the
// relational foreign key.
func (r *OrderRepositoryImpl) Delete(ctx context.Context, id string) error {
	items, err := r.s.members(ctx, r.s.keys.OrderItems(id))
	if err != nil {
		return err
	}
	if len(items) > 0 {
		return entity.ErrOrderHasItems
	}
	return r.s.del(r.s.keys.Order(id))
}
