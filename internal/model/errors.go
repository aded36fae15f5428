package model

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every error that dispatchers recover
// locally as a no-op.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyText      = fmt.Errorf("%w: text is empty", ErrValidation)
	ErrTaskNotFound   = fmt.Errorf("%w: task not found", ErrValidation)
	ErrPendingRemoval = fmt.Errorf("%w: task is pending removal", ErrValidation)
	ErrInvalidFilter  = fmt.Errorf("%w: invalid filter", ErrValidation)
	ErrInvalidDelta   = fmt.Errorf("%w: quantity delta must be +1 or -1", ErrValidation)
	ErrItemNotFound   = fmt.Errorf("%w: cart item not found", ErrValidation)
)

// ErrCatalogLookup is returned when an add-to-cart references a product the
// catalog does not have.
var ErrCatalogLookup = errors.New("catalog lookup failed")

// ErrUnknownProduct wraps ErrCatalogLookup
var ErrUnknownProduct = fmt.Errorf("%w: unknown product", ErrCatalogLookup)

// ErrEmptyCart is returned by checkout on an empty cart
var ErrEmptyCart = errors.New("cart is empty")

// PersistenceError reports a failed read or write against durable storage.
// In-memory state stays authoritative when it occurs.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err should be recovered as a no-op
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
