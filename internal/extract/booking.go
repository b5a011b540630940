package extract

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Booking is the structured result of interpreting a call transcript.
// It is a transient value object: validated here, then handed straight to the
// reservation committer, never persisted on its own.
//
// Invariants on return from the extractor: CheckOut is strictly after
// CheckIn, both are on or after today, every field is populated.

type Booking struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	RoomType string    `json:"room_type"`
	Guests   int       `json:"guests"`
}

const (
	RoomStandard = "Standard Room"
	RoomDeluxe   = "Deluxe Room"
	RoomSuite    = "Suite"
)

// randomSuffix is a package var so tests can pin the generated guest name.
var randomSuffix = func() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// Defaults is the deterministic fallback booking used whenever the
// extraction service fails or its output cannot be trusted.
func Defaults(now time.Time, callerPhone string) Booking {
	name := "Guest" + randomSuffix()
	today := dateOnly(now)
	return Booking{
		Name:     name,
		Email:    strings.ToLower(name) + "@guest.hotel.example",
		Phone:    callerPhone,
		CheckIn:  today.AddDate(0, 0, 1),
		CheckOut: today.AddDate(0, 0, 3),
		RoomType: RoomStandard,
		Guests:   1,
	}
}

// repair enforces the booking invariants in place, substituting defaults for
// anything missing, hallucinated, or inconsistent. It runs unconditionally,
// whether the values came from the service or were already defaults.
func repair(b Booking, now time.Time, callerPhone string) Booking {
	today := dateOnly(now)

	if strings.TrimSpace(b.Name) == "" {
		b.Name = "Guest" + randomSuffix()
	}
	if strings.TrimSpace(b.Email) == "" {
		b.Email = strings.ToLower(strings.ReplaceAll(b.Name, " ", ".")) + "@guest.hotel.example"
	}
	if strings.TrimSpace(b.Phone) == "" {
		b.Phone = callerPhone
	}

	b.RoomType = normalizeRoomType(b.RoomType)

	if b.Guests < 1 {
		b.Guests = 1
	}

	// Date pair is discarded as a unit: a single bad date means we cannot
	// trust either one.
	if b.CheckIn.IsZero() || b.CheckOut.IsZero() ||
		b.CheckIn.Before(today) ||
		!b.CheckOut.After(b.CheckIn) {
		b.CheckIn = today.AddDate(0, 0, 1)
		b.CheckOut = today.AddDate(0, 0, 3)
	}
	return b
}

func normalizeRoomType(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(v, "suite"):
		return RoomSuite
	case strings.Contains(v, "deluxe"):
		return RoomDeluxe
	default:
		return RoomStandard
	}
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
