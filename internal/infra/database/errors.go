package database

import (
	"database/sql"
	"errors"

	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
	foreignKeyViolation  = "23503"
)

// IsConflict reports failures after which PostgreSQL guarantees the
// transaction left nothing behind and can be rerun.
func IsConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == serializationFailure || pqErr.Code == deadlockDetected
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

// notFound converts sql.ErrNoRows into the domain error and leaves every
// other error untouched.
func notFound(err error, entityName, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return entity.NewNotFoundError(entityName, id)
	}
	return err
}

// parseID maps an id that cannot exist in a UUID column to NotFound.
func parseID(entityName, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, entity.NewNotFoundError(entityName, id)
	}
	return parsed, nil
}

func affected(rows int64, err error, entityName, id string) error {
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.NewNotFoundError(entityName, id)
	}
	return nil
}
