package telephony

import (
	"strings"
	"testing"
)

func TestRenderSayAndRecord(t *testing.T) {
	xml, err := VoiceResponse{
		Say: []string{"Welcome to the Grand Plaza Hotel.", "Please say your name after the beep."},
		Record: &RecordParams{
			Action:             "/collect-name",
			MaxLengthSec:       10,
			TimeoutSec:         3,
			Transcribe:         true,
			TranscribeCallback: "/transcription",
			PlayBeep:           true,
		},
	}.Render()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, want := range []string{
		"<Say", "Grand Plaza",
		`action="/collect-name"`,
		`transcribe="true"`,
		`transcribeCallback="/transcription"`,
		`maxLength="10"`,
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("expected %q in twiml: %s", want, xml)
		}
	}
}

func TestRenderRecordRequiresAction(t *testing.T) {
	_, err := VoiceResponse{Say: []string{"hi"}, Record: &RecordParams{}}.Render()
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRenderSayAndHangup(t *testing.T) {
	xml, err := VoiceResponse{Say: []string{"Goodbye."}, Hangup: true}.Render()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Hangup") {
		t.Fatalf("expected Hangup verb: %s", xml)
	}
}

func TestRenderEmptyResponseFails(t *testing.T) {
	if _, err := (VoiceResponse{}).Render(); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestRenderRedirect(t *testing.T) {
	xml, err := VoiceResponse{RedirectTo: "/create-booking"}.Render()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Redirect") || !strings.Contains(xml, "/create-booking") {
		t.Fatalf("expected Redirect verb: %s", xml)
	}
}
