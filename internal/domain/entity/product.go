package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

const ProductEntity = "Product"

type Product struct {
	id    string
	name  string
	price decimal.Decimal
}

// NewProduct builds a catalog entry that has not been persisted yet.
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	p := &Product{
		name:  name,
		price: price,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// RestoreProduct rebuilds a product loaded from storage.
func RestoreProduct(id, name string, price decimal.Decimal) *Product {
	return &Product{id: id, name: name, price: price}
}

func (p *Product) Validate() error {
	if strings.TrimSpace(p.name) == "" {
		return ErrNameIsRequired
	}
	if p.price.IsNegative() {
		return ErrPriceIsNegative
	}
	return nil
}

// AssignID is called by repositories on first save.
func (p *Product) AssignID(id string) {
	p.id = id
}

func (p *Product) ID() string {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Price() decimal.Decimal {
	return p.price
}
