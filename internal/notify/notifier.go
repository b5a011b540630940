package notify

import (
	"context"
	"time"
)

// BookingDetails is everything the confirmation message needs.
type BookingDetails struct {
	ReservationID string
	GuestName     string
	Email         string
	Phone         string
	CheckIn       time.Time
	CheckOut      time.Time
	RoomType      string
	Guests        int
	NightlyRate   int64
	Nights        int
}

// Notifier sends the booking confirmation. Fire-and-forget from the caller's
// perspective: the returned bool only varies the spoken confirmation text
// ("an email is on its way" vs "please note your confirmation number") and
// must never block or fail the commit.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, d BookingDetails) bool
}

// Noop is used when no mail transport is configured (local, tests).
type Noop struct{}

func (Noop) SendBookingConfirmation(context.Context, BookingDetails) bool { return false }
