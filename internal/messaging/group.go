package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is a background component with a start/stop lifecycle.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

type topicer interface {
	Topic() string
}

// ConsumerGroup runs the consumers reading from one subscriber and owns
// that subscriber's lifetime.
type ConsumerGroup struct {
	consumers  []Runnable
	started    int
	subscriber message.Subscriber
	logger     *zap.Logger
}

func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

func (g *ConsumerGroup) Add(consumer Runnable) {
	g.consumers = append(g.consumers, consumer)
}

func (g *ConsumerGroup) Len() int {
	return len(g.consumers)
}

// Topics lists the topics of the registered consumers that expose one.
func (g *ConsumerGroup) Topics() []string {
	topics := make([]string, 0, len(g.consumers))

	for _, consumer := range g.consumers {
		if t, ok := consumer.(topicer); ok {
			topics = append(topics, t.Topic())
		}
	}

	return topics
}

// Start starts the consumers in order. On failure the ones already running
// are stopped again and the error names the failing consumer.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			_ = g.stop(i)

			return fmt.Errorf("start consumer %d of %d: %w", i+1, len(g.consumers), err)
		}
	}

	g.started = len(g.consumers)
	g.logger.Info("consumer group started", zap.Strings("topics", g.Topics()))

	return nil
}

// Shutdown stops the running consumers in reverse start order, then closes
// the subscriber. Every error is reported.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("shutting down consumer group")

	err := g.stop(g.started)
	g.started = 0

	return errors.Join(err, g.subscriber.Close())
}

func (g *ConsumerGroup) stop(n int) error {
	var errs []error

	for i := n - 1; i >= 0; i-- {
		if err := g.consumers[i].Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
