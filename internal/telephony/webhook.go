package telephony

import (
	"net/http"
	"strconv"
	"strings"
)

// VoiceWebhook captures the subset of voice webhook fields we care about.
// Twilio sends application/x-www-form-urlencoded by default.
// Ref: https://www.twilio.com/docs/voice/twiml
//
// Keep it minimal and provider-adapter-only.
// Business logic (the booking flow) is not made here.

type VoiceWebhook struct {
	CallSid    string
	AccountSid string
	From       string
	To         string
	Direction  string
	CallStatus string

	// Recording fields, present on record-action callbacks.
	RecordingURL         string
	RecordingDurationSec int

	// Transcription fields, present on the async transcription callback.
	TranscriptionText   string
	TranscriptionStatus string
}

func ParseVoiceWebhook(r *http.Request) (VoiceWebhook, error) {
	if err := r.ParseForm(); err != nil {
		return VoiceWebhook{}, err
	}
	w := VoiceWebhook{
		CallSid:             r.PostFormValue("CallSid"),
		AccountSid:          r.PostFormValue("AccountSid"),
		From:                normalizePhone(r.PostFormValue("From")),
		To:                  normalizePhone(r.PostFormValue("To")),
		Direction:           r.PostFormValue("Direction"),
		CallStatus:          r.PostFormValue("CallStatus"),
		RecordingURL:        r.PostFormValue("RecordingUrl"),
		TranscriptionText:   r.PostFormValue("TranscriptionText"),
		TranscriptionStatus: r.PostFormValue("TranscriptionStatus"),
	}
	if v := strings.TrimSpace(r.PostFormValue("RecordingDuration")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			w.RecordingDurationSec = n
		}
	}
	return w, nil
}

func normalizePhone(s string) string {
	s = strings.TrimSpace(s)
	// Twilio sometimes sends "anonymous" or empty; keep as-is.
	return s
}
