package shopping

import (
	"time"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type ProductWithStock struct {
	Product *entity.Product
	Stock   *entity.Stock
}

const OrderClosedEvent = "orders.closed"

// OrderClosedPayload is published once a checkout has been committed.
type OrderClosedPayload struct {
	OrderID  string            `json:"order_id"`
	Items    []OrderClosedLine `json:"items"`
	Total    decimal.Decimal   `json:"total"`
	ClosedAt time.Time         `json:"closed_at"`
}

// AggregateID keys the event on the order it describes.
func (p OrderClosedPayload) AggregateID() string {
	return p.OrderID
}

type OrderClosedLine struct {
	ItemID    string          `json:"item_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func newOrderClosedPayload(order *entity.Order, items []*entity.OrderItem) OrderClosedPayload {
	payload := OrderClosedPayload{
		OrderID:  order.ID(),
		Items:    make([]OrderClosedLine, 0, len(items)),
		Total:    decimal.Zero,
		ClosedAt: time.Now().UTC(),
	}
	for _, item := range items {
		payload.Items = append(payload.Items, OrderClosedLine{
			ItemID:    item.ID(),
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Subtotal:  item.Subtotal(),
		})
		payload.Total = payload.Total.Add(item.Subtotal())
	}
	return payload
}
