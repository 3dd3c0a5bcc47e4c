package pubsub

import (
	"testing"
	"time"
)

func TestAdDeletedEventRoundTrip(t *testing.T) {
	event := AdDeletedEvent{
		AdID:      1722515400123,
		UserID:    "user-1",
		ImageURLs: []string{"https://proj.supabase.co/storage/v1/object/public/ads-images/a.jpg"},
		DeletedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := EncodeAdDeleted(event)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeAdDeleted(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.AdID != event.AdID || decoded.UserID != event.UserID {
		t.Fatalf("unexpected decoded event %+v", decoded)
	}
	if len(decoded.ImageURLs) != 1 {
		t.Fatalf("expected image urls to survive, got %v", decoded.ImageURLs)
	}
}

func TestDecodeAdDeletedRejectsMissingAdID(t *testing.T) {
	if _, err := DecodeAdDeleted([]byte(`{"user_id":"user-1"}`)); err == nil {
		t.Fatalf("expected error for missing ad_id")
	}
	if _, err := DecodeAdDeleted([]byte(`not-json`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
