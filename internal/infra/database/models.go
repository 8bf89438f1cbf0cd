package database

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

type Stock struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  int64
}

type Order struct {
	ID     uuid.UUID
	Status string
}

type OrderItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	OrderID   uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int64
	Subtotal  decimal.Decimal
	Version   int64
}
