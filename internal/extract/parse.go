package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// wireBooking is the flat record shape the extraction service is instructed
// to emit. Everything here is untrusted until repaired.
type wireBooking struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	CheckIn  string      `json:"checkIn"`
	CheckOut string      `json:"checkOut"`
	RoomType string      `json:"roomType"`
	Guests   json.Number `json:"guests"`
}

const wireDateLayout = "2006-01-02"

// parseServiceOutput turns the model's raw text into a wireBooking.
// Models wrap JSON in fences or preamble despite instructions, so the widest
// brace-delimited slice is tried rather than the full payload.
func parseServiceOutput(raw string) (wireBooking, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return wireBooking{}, errors.New("extract: empty service output")
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return wireBooking{}, errors.New("extract: no JSON object in service output")
	}

	var w wireBooking
	if err := json.Unmarshal([]byte(s[start:end+1]), &w); err != nil {
		return wireBooking{}, fmt.Errorf("extract: decode service output: %w", err)
	}
	return w, nil
}

// toBooking converts the wire record to the domain type. Unparseable dates
// come back as zero values and are handled by repair; they are not errors.
func (w wireBooking) toBooking() Booking {
	b := Booking{
		Name:     strings.TrimSpace(w.Name),
		Email:    strings.TrimSpace(w.Email),
		Phone:    strings.TrimSpace(w.Phone),
		RoomType: w.RoomType,
	}
	if t, err := time.ParseInLocation(wireDateLayout, strings.TrimSpace(w.CheckIn), time.UTC); err == nil {
		b.CheckIn = t
	}
	if t, err := time.ParseInLocation(wireDateLayout, strings.TrimSpace(w.CheckOut), time.UTC); err == nil {
		b.CheckOut = t
	}
	if n, err := w.Guests.Int64(); err == nil {
		b.Guests = int(n)
	}
	return b
}
