package booking

import "time"

// Reservation is a committed booking.
//
// Notes carries the originating call id, which is the only linkage between a
// reservation and the phone call that produced it.

type Reservation struct {
	ID        string `json:"id" db:"id"`
	GuestName string `json:"guest_name" db:"guest_name"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`

	CheckIn  time.Time `json:"check_in" db:"check_in"`
	CheckOut time.Time `json:"check_out" db:"check_out"`

	RoomType string `json:"room_type" db:"room_type"`
	Guests   int    `json:"guests" db:"guests"`

	// NightlyRate is whole currency units per night. Always derived from the
	// rate table, never taken from the extraction service.
	NightlyRate int64 `json:"nightly_rate" db:"nightly_rate"`

	Status Status `json:"status" db:"status"`
	Notes  string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Nights is the stay length in whole nights.
func (r Reservation) Nights() int {
	n := int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}
