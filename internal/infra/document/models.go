package document

import "github.com/shopspring/decimal"

type productDoc struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type stockDoc struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type orderDoc struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type orderItemDoc struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	OrderID   string          `json:"order_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Version   int             `json:"version"`
}
