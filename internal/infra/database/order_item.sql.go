package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (product_id, order_id, unit_price, quantity, subtotal, version)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`

type CreateOrderItemParams struct {
	ProductID uuid.UUID
	OrderID   uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int64
	Subtotal  decimal.Decimal
	Version   int64
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (uuid.UUID, error) {
	row := q.db.QueryRowContext(ctx, createOrderItem,
		arg.ProductID,
		arg.OrderID,
		arg.UnitPrice,
		arg.Quantity,
		arg.Subtotal,
		arg.Version,
	)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const getOrderItemForUpdate = `-- name: GetOrderItemForUpdate :one
SELECT id, product_id, order_id, unit_price, quantity, subtotal, version FROM order_items
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetOrderItemForUpdate(ctx context.Context, id uuid.UUID) (OrderItem, error) {
	row := q.db.QueryRowContext(ctx, getOrderItemForUpdate, id)
	return scanOrderItem(row)
}

const getOrderItemByProductAndOrderForUpdate = `-- name: GetOrderItemByProductAndOrderForUpdate :one
SELECT id, product_id, order_id, unit_price, quantity, subtotal, version FROM order_items
WHERE product_id = $1 AND order_id = $2
FOR UPDATE
`

type GetOrderItemByProductAndOrderForUpdateParams struct {
	ProductID uuid.UUID
	OrderID   uuid.UUID
}

func (q *Queries) GetOrderItemByProductAndOrderForUpdate(ctx context.Context, arg GetOrderItemByProductAndOrderForUpdateParams) (OrderItem, error) {
	row := q.db.QueryRowContext(ctx, getOrderItemByProductAndOrderForUpdate, arg.ProductID, arg.OrderID)
	return scanOrderItem(row)
}

const listOrderItemsByOrder = `-- name: ListOrderItemsByOrder :many
SELECT id, product_id, order_id, unit_price, quantity, subtotal, version FROM order_items
WHERE order_id = $1
ORDER BY id
FOR UPDATE
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.QueryContext(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		i, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrderItem = `-- name: UpdateOrderItem :execrows
UPDATE order_items SET quantity = $2, subtotal = $3, version = $4
WHERE id = $1
`

type UpdateOrderItemParams struct {
	ID       uuid.UUID
	Quantity int64
	Subtotal decimal.Decimal
	Version  int64
}

func (q *Queries) UpdateOrderItem(ctx context.Context, arg UpdateOrderItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateOrderItem, arg.ID, arg.Quantity, arg.Subtotal, arg.Version)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteOrderItem = `-- name: DeleteOrderItem :execrows
DELETE FROM order_items
WHERE id = $1
`

func (q *Queries) DeleteOrderItem(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteOrderItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrderItem(row rowScanner) (OrderItem, error) {
	var i OrderItem
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.OrderID,
		&i.UnitPrice,
		&i.Quantity,
		&i.Subtotal,
		&i.Version,
	)
	return i, err
}
