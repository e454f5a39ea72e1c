package facade

import (
	"errors"
	"fmt"

	"hbnb/internal/domain/amenities"
	"hbnb/internal/domain/bookings"
	"hbnb/internal/domain/places"
	"hbnb/internal/domain/reviews"
	"hbnb/internal/domain/users"
)

var (
	ErrInvalidRange  = errors.New("start date must be before end date")
	ErrPastDate      = errors.New("start date cannot be in the past")
	ErrConflict      = errors.New("place is already booked for the requested dates")
	ErrInvalidStatus = errors.New("status must be DONE, PENDING or CANCELLED")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrImmutable     = errors.New("booking can no longer be modified")
	ErrValidation    = errors.New("validation failed")
	ErrDuplicate     = errors.New("already exists")
	ErrUnauthorized  = errors.New("invalid email or password")
)

// translate maps store errors onto the facade's error kinds, keeping the
// original in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, users.ErrNotFound),
		errors.Is(err, places.ErrNotFound),
		errors.Is(err, amenities.ErrNotFound),
		errors.Is(err, bookings.ErrNotFound),
		errors.Is(err, reviews.ErrNotFound),
		errors.Is(err, places.ErrPhotoNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, users.ErrDuplicateEmail),
		errors.Is(err, amenities.ErrDuplicateName):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, bookings.ErrOverlap):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, bookings.ErrInvalidRange):
		return fmt.Errorf("%w: %w", ErrInvalidRange, err)
	case errors.Is(err, bookings.ErrInvalidStatus):
		return fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	case errors.Is(err, reviews.ErrInvalidComment),
		errors.Is(err, reviews.ErrInvalidRating):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return err
	}
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
