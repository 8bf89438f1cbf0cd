package entity

import (
	"math"

	"github.com/shopspring/decimal"
)

const OrderItemEntity = "OrderItem"

type OrderItem struct {
	id        string
	productID string
	orderID   string
	unitPrice decimal.Decimal
	quantity  int
	subtotal  decimal.Decimal
	version   int
}

// NewOrderItem binds a product to an order. Both must already be persisted.
func NewOrderItem(product *Product, order *Order, quantity int) (*OrderItem, error) {
	if product == nil || order == nil || product.ID() == "" || order.ID() == "" {
		return nil, ErrIDIsRequired
	}
	item := &OrderItem{
		productID: product.ID(),
		orderID:   order.ID(),
		unitPrice: product.Price(),
		quantity:  quantity,
		version:   1,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.calculateSubtotal()
	return item, nil
}

// RestoreOrderItem rebuilds an item loaded from storage or sent back by a
// caller as a snapshot.
func RestoreOrderItem(id, productID, orderID string, unitPrice decimal.Decimal, quantity, version int) *OrderItem {
	item := &OrderItem{
		id:        id,
		productID: productID,
		orderID:   orderID,
		unitPrice: unitPrice,
		quantity:  quantity,
		version:   version,
	}
	item.calculateSubtotal()
	return item
}

func (i *OrderItem) Validate() error {
	if i.productID == "" || i.orderID == "" {
		return ErrIDIsRequired
	}
	if i.quantity <= 0 {
		return ErrQuantityMustBePos
	}
	if i.unitPrice.IsNegative() {
		return ErrPriceIsNegative
	}
	return nil
}

func (i *OrderItem) IncreaseQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityMustBePos
	}
	if i.quantity > math.MaxInt-quantity {
		return ErrQuantityOverflow
	}
	i.quantity += quantity
	i.version++
	i.calculateSubtotal()
	return nil
}

// DecreaseQuantity never lets the item reach zero; removing every unit is
// done by deleting the item.
func (i *OrderItem) DecreaseQuantity(quantity int) error {
	if quantity <= 0 || i.quantity-quantity <= 0 {
		return ErrQuantityMustBePos
	}
	i.quantity -= quantity
	i.version++
	i.calculateSubtotal()
	return nil
}

// MatchesSnapshot reports whether a caller-held copy still describes this
// item.
func (i *OrderItem) MatchesSnapshot(snapshot *OrderItem) bool {
	if snapshot == nil {
		return false
	}
	return i.productID == snapshot.productID &&
		i.orderID == snapshot.orderID &&
		i.quantity == snapshot.quantity &&
		i.version == snapshot.version
}

func (i *OrderItem) calculateSubtotal() {
	i.subtotal = i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *OrderItem) AssignID(id string) {
	i.id = id
}

func (i *OrderItem) ID() string {
	return i.id
}

func (i *OrderItem) ProductID() string {
	return i.productID
}

func (i *OrderItem) OrderID() string {
	return i.orderID
}

func (i *OrderItem) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

func (i *OrderItem) Quantity() int {
	return i.quantity
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.subtotal
}

func (i *OrderItem) Version() int {
	return i.version
}
