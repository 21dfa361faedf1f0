package services

import (
	"errors"
	"fmt"

	"github.com/smarttransit/seat-booking-backend/internal/database"
)

// Error kinds returned by every service. Handlers match them with errors.Is.
var (
	ErrSeatUnavailable   = errors.New("seat is not available")
	ErrInvalidTransition = errors.New("invalid seat status transition")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
)

// validationError wraps a field problem as ErrValidation
func validationError(err error) error {
	return fmt.Errorf("%w: %s", ErrValidation, err.Error())
}

// notFound reports what was missing as ErrNotFound
func notFound(what string, id interface{}) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
}

// storeError translates store sentinels. Anything else passes through.
func storeError(err error, what string, id interface{}) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return notFound(what, id)
	case errors.Is(err, database.ErrSeatTaken):
		return fmt.Errorf("%w: seat already booked", ErrSeatUnavailable)
	}
	return err
}
