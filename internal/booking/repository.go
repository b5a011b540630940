package booking

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("booking: not found")
	ErrInvalidArgument = errors.New("booking: invalid argument")
)

// Repository abstracts reservation persistence.
type Repository interface {
	Create(ctx context.Context, r Reservation) error
	FindByID(ctx context.Context, id string) (Reservation, error)

	// UpdateDates is the manual repair operation behind the fix-dates
	// endpoint; it leaves every other field untouched.
	UpdateDates(ctx context.Context, id string, checkIn, checkOut time.Time) error
}
