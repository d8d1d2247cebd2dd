package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrNoHotels is the package-creation precondition: a package needs a hotel.
	ErrNoHotels = errors.New("no hotels registered")
)

// StoreError wraps a persistence failure (constraint violation, connectivity).
// The attempted write has been rolled back when it is returned.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
