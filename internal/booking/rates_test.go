package booking

import (
	"testing"

	"hotel-frontdesk/internal/extract"
)

func TestNightlyRate(t *testing.T) {
	cases := map[string]int64{
		extract.RoomSuite:    300,
		extract.RoomDeluxe:   200,
		extract.RoomStandard: 150,
		"Penthouse":          150,
		"":                   150,
	}
	for roomType, want := range cases {
		if got := NightlyRate(roomType); got != want {
			t.Fatalf("NightlyRate(%q): expected %d, got %d", roomType, want, got)
		}
	}
}

func TestReservationNights(t *testing.T) {
	r := Reservation{}
	r.CheckIn = date(2026, 8, 30)
	r.CheckOut = date(2026, 9, 1)
	if got := r.Nights(); got != 2 {
		t.Fatalf("expected 2 nights, got %d", got)
	}

	// Degenerate pair never reports zero nights.
	r.CheckOut = r.CheckIn
	if got := r.Nights(); got != 1 {
		t.Fatalf("expected 1 night floor, got %d", got)
	}
}
