package utils

import (
	"strings"
	"testing"
)

func TestDedupeKeyIsStableAndScoped(t *testing.T) {
	a := DedupeKey("transcription:CA1", "hello world")
	b := DedupeKey("transcription:CA1", "hello world")
	if a != b {
		t.Fatalf("expected stable key, got %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "dedupe:transcription:CA1:") {
		t.Fatalf("unexpected key shape: %q", a)
	}
	if c := DedupeKey("transcription:CA2", "hello world"); c == a {
		t.Fatalf("expected scope to change key")
	}
	if c := DedupeKey("transcription:CA1", "other text"); c == a {
		t.Fatalf("expected payload to change key")
	}
}
