package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Metadata keys set on every published message.
const (
	MetadataTopic       = "topic"
	MetadataPublishedAt = "published_at"
)

// Publish sends one typed event. It is safe to call from request handlers:
// the message keeps the request's values but not its cancellation.
type Publish[T any] func(ctx context.Context, event *T) error

// NewPublishFunc returns a Publish that JSON-encodes events onto topic.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(ctx context.Context, event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", topic, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.Metadata.Set(MetadataTopic, topic)
		msg.Metadata.Set(MetadataPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))
		msg.SetContext(context.WithoutCancel(ctx))

		if err := publisher.Publish(topic, msg); err != nil {
			return fmt.Errorf("publish %s event %s: %w", topic, msg.UUID, err)
		}

		return nil
	}
}

// Discard returns a Publish that drops every event, for deployments
// running without an event stream.
func Discard[T any]() Publish[T] {
	return func(context.Context, *T) error { return nil }
}

// PublisherGroup owns the publisher shared by the typed publish functions
// and closes it on shutdown.
type PublisherGroup struct {
	publisher message.Publisher
}

func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

func (g *PublisherGroup) Shutdown() error {
	if err := g.publisher.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}

	return nil
}
