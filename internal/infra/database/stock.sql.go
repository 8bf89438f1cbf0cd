package database

import (
	"context"

	"github.com/google/uuid"
)

const createStock = `-- name: CreateStock :one
INSERT INTO stocks (product_id, quantity) VALUES ($1, $2)
RETURNING id
`

type CreateStockParams struct {
	ProductID uuid.UUID
	Quantity  int64
}

func (q *Queries) CreateStock(ctx context.Context, arg CreateStockParams) (uuid.UUID, error) {
	row := q.db.QueryRowContext(ctx, createStock, arg.ProductID, arg.Quantity)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const getStockByProductForUpdate = `-- name: GetStockByProductForUpdate :one
SELECT id, product_id, quantity FROM stocks
WHERE product_id = $1
ORDER BY id
LIMIT 1
FOR UPDATE
`

func (q *Queries) GetStockByProductForUpdate(ctx context.Context, productID uuid.UUID) (Stock, error) {
	row := q.db.QueryRowContext(ctx, getStockByProductForUpdate, productID)
	var i Stock
	err := row.Scan(&i.ID, &i.ProductID, &i.Quantity)
	return i, err
}

const updateStockQuantity = `-- name: UpdateStockQuantity :execrows
UPDATE stocks SET quantity = $2
WHERE id = $1
`

type UpdateStockQuantityParams struct {
	ID       uuid.UUID
	Quantity int64
}

func (q *Queries) UpdateStockQuantity(ctx context.Context, arg UpdateStockQuantityParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateStockQuantity, arg.ID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
