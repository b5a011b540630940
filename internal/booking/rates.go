package booking

import "hotel-frontdesk/internal/extract"

// Nightly rates by room type, whole currency units. Price is a fixed lookup
// on our side: the extraction service must never be the source of a rate.
const (
	rateSuite    int64 = 300
	rateDeluxe   int64 = 200
	rateStandard int64 = 150
)

func NightlyRate(roomType string) int64 {
	switch roomType {
	case extract.RoomSuite:
		return rateSuite
	case extract.RoomDeluxe:
		return rateDeluxe
	default:
		return rateStandard
	}
}
