package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
)

// AdDeletedEvent is published when an ad is removed so the cleanup worker can
// delete its images from object storage.
type AdDeletedEvent struct {
	AdID      int64     `json:"ad_id"`
	UserID    string    `json:"user_id"`
	ImageURLs []string  `json:"image_urls"`
	DeletedAt time.Time `json:"deleted_at"`
}

// EncodeAdDeleted serializes the event for publishing.
func EncodeAdDeleted(event AdDeletedEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encoding ad deleted event: %w", err)
	}
	return data, nil
}

// PublishAdDeleted publishes the event and waits for the server ack.
func (c *Client) PublishAdDeleted(ctx context.Context, event AdDeletedEvent) error {
	publisher := c.AdDeletedPublisher()
	if publisher == nil {
		return errors.New("ad deleted publisher not configured")
	}
	data, err := EncodeAdDeleted(event)
	if err != nil {
		return err
	}
	result := publisher.Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing ad deleted event: %w", err)
	}
	return nil
}

// DecodeAdDeleted parses a consumed message payload.
func DecodeAdDeleted(data []byte) (*AdDeletedEvent, error) {
	var event AdDeletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decoding ad deleted event: %w", err)
	}
	if event.AdID == 0 {
		return nil, fmt.Errorf("ad deleted event missing ad_id")
	}
	return &event, nil
}
