package pagination

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(20); got != 20 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := LimitWithBuffer(20); got != 21 {
		t.Fatalf("expected buffered limit 21, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 8, 1, 12, 30, 0, 123456789, time.UTC)
	encoded := EncodeCursor(Cursor{CreatedAt: created, AdID: 1722515400123})

	parsed, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if parsed == nil {
		t.Fatalf("expected parsed cursor")
	}
	if !parsed.CreatedAt.Equal(created) {
		t.Fatalf("expected %v, got %v", created, parsed.CreatedAt)
	}
	if parsed.AdID != 1722515400123 {
		t.Fatalf("unexpected ad id %d", parsed.AdID)
	}
}

func TestParseCursorEmptyAndInvalid(t *testing.T) {
	parsed, err := ParseCursor("  ")
	if err != nil || parsed != nil {
		t.Fatalf("expected nil cursor for blank input, got %v, %v", parsed, err)
	}
	if _, err := ParseCursor("not-base64!"); err == nil {
		t.Fatalf("expected error for malformed base64")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Fatalf("expected error for missing separator")
	}
}
