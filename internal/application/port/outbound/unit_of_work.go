package outbound

import (
	"context"
	"errors"
)

var (
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrTransactionClosed is returned by repositories used after their
	// unit of work has finished.
	ErrTransactionClosed = errors.New("transaction context is closed")
)

// RepositoryProvider gives access to every repository bound to one
// transaction.
type RepositoryProvider interface {
	Product() ProductRepository
	Stock() StockRepository
	Order() OrderRepository
	OrderItem() OrderItemRepository
}

// UnitOfWork manages atomicity.
// The callback receives a Provider already "hydrated" with the active
// transaction. Any error returned by fn aborts the transaction and comes
// back as a *TransactionError.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(provider RepositoryProvider) error) error
}

// Run executes fn inside uow and hands back its result.
func Run[T any](ctx context.Context, uow UnitOfWork, fn func(provider RepositoryProvider) (T, error)) (T, error) {
	var result T
	err := uow.Do(ctx, func(provider RepositoryProvider) error {
		out, err := fn(provider)
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// TransactionError is the single failure shape of a unit of work. The
// message is the one of the error that caused the abort.
type TransactionError struct {
	Message string
	cause   error
}

func NewTransactionError(cause error) *TransactionError {
	var txErr *TransactionError
	if errors.As(cause, &txErr) {
		return txErr
	}
	return &TransactionError{Message: cause.Error(), cause: cause}
}

func (e *TransactionError) Error() string {
	return "transaction failed: " + e.Message
}

func (e *TransactionError) Is(target error) bool {
	return target == ErrTransactionFailed
}

func (e *TransactionError) Unwrap() error {
	return e.cause
}
