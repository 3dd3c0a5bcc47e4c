package cleanup

import (
	"context"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
	pubsubpkg "github.com/My-selling-apps/PhoneBechPakistan/pkg/pubsub"
)

type objectRemover interface {
	KeyFromPublicURL(raw string) (string, bool)
	Remove(ctx context.Context, keys []string) error
}

// Consumer deletes stored ad images after their records are removed.
type Consumer struct {
	storage      objectRemover
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewConsumer constructs a consumer that watches the ad-deleted subscription.
func NewConsumer(storage objectRemover, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if storage == nil {
		return nil, errors.New("storage client is required")
	}
	if subscription == nil {
		return nil, errors.New("ad deleted subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		storage:      storage,
		subscription: subscription,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.Process(ctx, msg.ID, msg.Data) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// Process handles one message payload. It returns true when the message
// should be acked. Malformed payloads are acked so they do not redeliver
// forever; storage failures are nacked for retry.
func (c *Consumer) Process(ctx context.Context, msgID string, data []byte) bool {
	logCtx := c.logg.WithField(ctx, "message_id", msgID)

	event, err := pubsubpkg.DecodeAdDeleted(data)
	if err != nil {
		c.logg.Error(logCtx, "dropping malformed ad deleted event", err)
		return true
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"ad_id":   event.AdID,
		"user_id": event.UserID,
	})

	keys := make([]string, 0, len(event.ImageURLs))
	for _, raw := range event.ImageURLs {
		key, ok := c.storage.KeyFromPublicURL(raw)
		if !ok {
			c.logg.Warn(c.logg.WithField(logCtx, "image_url", raw), "skipping unrecognized image url")
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		c.logg.Info(logCtx, "no storage objects to remove")
		return true
	}

	if err := c.storage.Remove(ctx, keys); err != nil {
		c.logg.Error(logCtx, "failed to remove ad images from storage", err)
		return false
	}

	c.logg.Info(c.logg.WithField(logCtx, "removed", len(keys)), "ad images removed from storage")
	return true
}
