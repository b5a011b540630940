package extract

import (
	"fmt"
	"strings"
)

// The extraction service is treated as unreliable free-text generation, not a
// trusted parser. The prompt pins everything that can be pinned: the date
// anchor, the positional meaning of the transcript segments, the exact output
// shape, and the defaults for anything missing.

func buildSystemPrompt(today string) string {
	return strings.Join([]string{
		"You extract hotel booking details from a phone call transcript.",
		"",
		fmt.Sprintf("Today's date is %s. Resolve all relative dates (\"tomorrow\", \"next Friday\", \"in 3 days\") against that date.", today),
		"",
		"The transcript is a concatenation of the caller's answers, in order:",
		"1st answer: the caller's full name",
		"2nd answer: the caller's email address",
		"3rd answer: the check-in date",
		"4th answer: the check-out date",
		"5th answer: the room type (Standard Room, Deluxe Room, or Suite)",
		"",
		"Output contract:",
		"Return ONLY a single JSON object, no prose, no code fences, with exactly these keys:",
		`{"name": string, "email": string, "phone": string, "checkIn": "YYYY-MM-DD", "checkOut": "YYYY-MM-DD", "roomType": string, "guests": number}`,
		"",
		"Defaults for missing or ambiguous answers:",
		`name: "Guest", email: "", phone: "", checkIn: tomorrow, checkOut: tomorrow plus two days, roomType: "Standard Room", guests: 1.`,
	}, "\n")
}

func buildUserPrompt(transcript string) string {
	return "Transcript:\n" + normalizePromptInput(transcript)
}

func normalizePromptInput(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}
