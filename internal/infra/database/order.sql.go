package database

import (
	"context"

	"github.com/google/uuid"
)

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (status) VALUES ($1)
RETURNING id
`

func (q *Queries) CreateOrder(ctx context.Context, status string) (uuid.UUID, error) {
	row := q.db.QueryRowContext(ctx, createOrder, status)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const getOrderForUpdate = `-- name: GetOrderForUpdate :one
SELECT id, status FROM orders
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRowContext(ctx, getOrderForUpdate, id)
	var i Order
	err := row.Scan(&i.ID, &i.Status)
	return i, err
}

const updateOrderStatus = `-- name: UpdateOrderStatus :execrows
UPDATE orders SET status = $2
WHERE id = $1
`

type UpdateOrderStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateOrderStatus, arg.ID, arg.Status)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteOrder = `-- name: DeleteOrder :execrows
DELETE FROM orders
WHERE id = $1
`

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
