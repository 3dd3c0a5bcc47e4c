package cleanup

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
	pubsubpkg "github.com/My-selling-apps/PhoneBechPakistan/pkg/pubsub"
)

type stubRemover struct {
	removed   [][]string
	removeErr error
}

func (s *stubRemover) KeyFromPublicURL(raw string) (string, bool) {
	const marker = "/object/public/ads/"
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", false
	}
	return raw[idx+len(marker):], true
}

func (s *stubRemover) Remove(ctx context.Context, keys []string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, keys)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cleanup-test", Level: logger.ParseLevel("error")})
}

func encodeEvent(t *testing.T, event pubsubpkg.AdDeletedEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("encoding event: %v", err)
	}
	return data
}

func TestProcessRemovesMappedKeys(t *testing.T) {
	storage := &stubRemover{}
	consumer := &Consumer{storage: storage, logg: testLogger()}

	data := encodeEvent(t, pubsubpkg.AdDeletedEvent{
		AdID:   1722515400123,
		UserID: "user-1",
		ImageURLs: []string{
			"https://example.supabase.co/storage/v1/object/public/ads/1722515400123/a.jpg",
			"https://example.supabase.co/storage/v1/object/public/ads/1722515400123/b.jpg",
		},
		DeletedAt: time.Now().UTC(),
	})

	if ack := consumer.Process(context.Background(), "m1", data); !ack {
		t.Fatal("expected ack for processed event")
	}
	if len(storage.removed) != 1 {
		t.Fatalf("expected one remove call, got %d", len(storage.removed))
	}
	if got := storage.removed[0]; len(got) != 2 || got[0] != "1722515400123/a.jpg" {
		t.Fatalf("unexpected keys removed: %v", got)
	}
}

func TestProcessAcksMalformedPayloads(t *testing.T) {
	storage := &stubRemover{}
	consumer := &Consumer{storage: storage, logg: testLogger()}

	if ack := consumer.Process(context.Background(), "m1", []byte("not json")); !ack {
		t.Fatal("malformed payloads must be acked, not retried")
	}
	if len(storage.removed) != 0 {
		t.Fatal("no storage call expected for malformed payloads")
	}
}

func TestProcessSkipsForeignURLs(t *testing.T) {
	storage := &stubRemover{}
	consumer := &Consumer{storage: storage, logg: testLogger()}

	data := encodeEvent(t, pubsubpkg.AdDeletedEvent{
		AdID:      42,
		ImageURLs: []string{"https://cdn.elsewhere.example/a.jpg"},
	})

	if ack := consumer.Process(context.Background(), "m1", data); !ack {
		t.Fatal("expected ack when every url is foreign")
	}
	if len(storage.removed) != 0 {
		t.Fatal("foreign urls must not trigger storage removal")
	}
}

func TestProcessNacksOnStorageFailure(t *testing.T) {
	storage := &stubRemover{removeErr: errors.New("bucket down")}
	consumer := &Consumer{storage: storage, logg: testLogger()}

	data := encodeEvent(t, pubsubpkg.AdDeletedEvent{
		AdID:      42,
		ImageURLs: []string{"https://example.supabase.co/storage/v1/object/public/ads/42/a.jpg"},
	})

	if ack := consumer.Process(context.Background(), "m1", data); ack {
		t.Fatal("storage failures must be nacked for retry")
	}
}
