package telephony

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseVoiceWebhook(t *testing.T) {
	body := strings.NewReader("CallSid=CA123&From=%2B15551234567&To=%2B15557654321&RecordingUrl=https%3A%2F%2Fapi.twilio.com%2Frec%2FRE1&RecordingDuration=7")
	r := httptest.NewRequest(http.MethodPost, "/collect-name", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, err := ParseVoiceWebhook(r)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if w.CallSid != "CA123" {
		t.Fatalf("expected CallSid, got %q", w.CallSid)
	}
	if w.From != "+15551234567" || w.To != "+15557654321" {
		t.Fatalf("unexpected from/to: %q %q", w.From, w.To)
	}
	if w.RecordingURL == "" || w.RecordingDurationSec != 7 {
		t.Fatalf("unexpected recording fields: %q %d", w.RecordingURL, w.RecordingDurationSec)
	}
}

func TestParseVoiceWebhookTranscription(t *testing.T) {
	body := strings.NewReader("CallSid=CA123&TranscriptionText=John+Smith&TranscriptionStatus=completed")
	r := httptest.NewRequest(http.MethodPost, "/transcription", body)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, err := ParseVoiceWebhook(r)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if w.TranscriptionText != "John Smith" || w.TranscriptionStatus != "completed" {
		t.Fatalf("unexpected transcription fields: %q %q", w.TranscriptionText, w.TranscriptionStatus)
	}
}
