package entity

import "math"

const StockEntity = "Stock"

type Stock struct {
	id        string
	productID string
	quantity  int
}

func NewStock(productID string, quantity int) (*Stock, error) {
	s := &Stock{
		productID: productID,
		quantity:  quantity,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func RestoreStock(id, productID string, quantity int) *Stock {
	return &Stock{id: id, productID: productID, quantity: quantity}
}

func (s *Stock) Validate() error {
	if s.productID == "" {
		return ErrIDIsRequired
	}
	if s.quantity < 0 {
		return ErrQuantityNegative
	}
	return nil
}

// Decrease takes quantity units out of the stock. The product name is only
// used to describe the failure.
func (s *Stock) Decrease(quantity int, productName string) error {
	if quantity <= 0 {
		return ErrQuantityMustBePos
	}
	if s.quantity < quantity {
		return &InsufficientStockError{
			ProductName: productName,
			Requested:   quantity,
			Available:   s.quantity,
		}
	}
	s.quantity -= quantity
	return nil
}

// Increase puts quantity units back (restocking).
func (s *Stock) Increase(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityMustBePos
	}
	if s.quantity > math.MaxInt-quantity {
		return ErrQuantityOverflow
	}
	s.quantity += quantity
	return nil
}

func (s *Stock) AssignID(id string) {
	s.id = id
}

func (s *Stock) ID() string {
	return s.id
}

func (s *Stock) ProductID() string {
	return s.productID
}

func (s *Stock) Quantity() int {
	return s.quantity
}
