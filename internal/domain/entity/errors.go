package entity

import (
	"errors"
	"fmt"
)

var (
	ErrIDIsRequired = errors.New("id is required")

	ErrValidation        = errors.New("validation failed")
	ErrNameIsRequired    = fmt.Errorf("%w: name is required", ErrValidation)
	ErrPriceMustBePos    = fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	ErrPriceIsNegative   = fmt.Errorf("%w: price must be greater than or equal to zero", ErrValidation)
	ErrQuantityMustBePos = fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	ErrQuantityNegative  = fmt.Errorf("%w: quantity must be greater than or equal to zero", ErrValidation)
	ErrQuantityOverflow  = fmt.Errorf("%w: quantity is too large", ErrValidation)

	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStaleData         = errors.New("stale data")
	ErrOrderHasItems     = errors.New("order still has items")
)

// NotFoundError reports a missing entity at a point where it must exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StaleDataError means the caller acted on a copy of an item that has
// since been changed by another transaction.
type StaleDataError struct {
	ItemID string
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("order item %s is out of date, reload it and try again", e.ItemID)
}

func (e *StaleDataError) Is(target error) bool {
	return target == ErrStaleData
}
