package document

import (
	"context"
	"sort"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/google/uuid"
)

type OrderItemRepositoryImpl struct {
	s *session
}

func toOrderItem(doc orderItemDoc) *entity.OrderItem {
	return entity.RestoreOrderItem(doc.ID, doc.ProductID, doc.OrderID, doc.UnitPrice, doc.Quantity, doc.Version)
}

func (r *OrderItemRepositoryImpl) load(ctx context.Context, id string) (orderItemDoc, bool, error) {
	var doc orderItemDoc
	found, err := r.s.getDoc(ctx, r.s.keys.Item(id), &doc)
	return doc, found, err
}

func (r *OrderItemRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.OrderItem, error) {
	doc, found, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.NewNotFoundError(entity.OrderItemEntity, id)
	}
	return toOrderItem(doc), nil
}

func (r *OrderItemRepositoryImpl) FindByProductAndOrderID(ctx context.Context, productID, orderID string) (*entity.OrderItem, error) {
	key := productID + "/" + orderID
	id, found, err := r.s.get(ctx, r.s.keys.ItemByProductAndOrder(productID, orderID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.NewNotFoundError(entity.OrderItemEntity, key)
	}
	doc, found, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, entity.NewNotFoundError(entity.OrderItemEntity, key)
	}
	return toOrderItem(doc), nil
}

func (r *OrderItemRepositoryImpl) ListByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	ids, err := r.s.members(ctx, r.s.keys.OrderItems(orderID))
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	items := make([]*entity.OrderItem, 0, len(ids))
	for _, id := range ids {
		doc, found, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			items = append(items, toOrderItem(doc))
		}
	}
	return items, nil
}

func (r *OrderItemRepositoryImpl) Save(_ context.Context, item *entity.OrderItem) error {
	id := uuid.NewString()
	doc := orderItemDoc{
		ID:        id,
		ProductID: item.ProductID(),
		OrderID:   item.OrderID(),
		UnitPrice: item.UnitPrice(),
		Quantity:  item.Quantity(),
		Subtotal:  item.Subtotal(),
		Version:   item.Version(),
	}
	if err := r.s.putDoc(r.s.keys.Item(id), doc); err != nil {
		return err
	}
	if err := r.s.putString(r.s.keys.ItemByProductAndOrder(doc.ProductID, doc.OrderID), id); err != nil {
		return err
	}
	if err := r.s.addMember(r.s.keys.OrderItems(doc.OrderID), id); err != nil {
		return err
	}
	item.AssignID(id)
	return nil
}

func (r *OrderItemRepositoryImpl) Update(ctx context.Context, item *entity.OrderItem) error {
	doc, found, err := r.load(ctx, item.ID())
	if err != nil {
		return err
	}
	if !found {
		return entity.NewNotFoundError(entity.OrderItemEntity, item.ID())
	}
	doc.Quantity = item.Quantity()
	doc.Subtotal = item.Subtotal()
	doc.Version = item.Version()
	return r.s.putDoc(r.s.keys.Item(item.ID()), doc)
}

func (r *OrderItemRepositoryImpl) Delete(ctx context.Context, id string) error {
	doc, found, err := r.load(ctx, id)
	if err != nil || !found {
		return err
	}
	if err := r.s.del(r.s.keys.Item(id)); err != nil {
		return err
	}
	if err := r.s.del(r.s.keys.ItemByProductAndOrder(doc.ProductID, doc.OrderID)); err != nil {
		return err
	}
	return r.s.removeMember(r.s.keys.OrderItems(doc.OrderID), id)
}
