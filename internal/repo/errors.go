package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrItemNotFound is returned when the referenced inventory item does not exist.
var ErrItemNotFound = errors.New("inventory item not found")

// ErrDuplicateSKU is returned when creating an item with a SKU already in use.
var ErrDuplicateSKU = errors.New("sku already in use")

// ErrUserNotFound is returned when a user lookup finds no row.
var ErrUserNotFound = errors.New("user not found")

// ErrConflict is returned when a concurrent operation on the same item won the
// row lock; the operation was not applied and the caller may retry it.
var ErrConflict = errors.New("concurrent update conflict")

// InsufficientStockError is returned when a removal requests more stock than
// the item currently holds. Nothing is mutated in that case.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

// PersistenceError wraps a datastore failure that is not part of the domain
// taxonomy. The transaction it occurred in was rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SQLSTATEs that signal lock contention or serialization failure. These are
// retryable by the caller; everything else is a persistence failure.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
	sqlstateUniqueViolation      = "23505"
)

func mapPgError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
			return ErrConflict
		case sqlstateUniqueViolation:
			return ErrDuplicateSKU
		}
	}
	return &PersistenceError{Op: op, Err: err}
}
