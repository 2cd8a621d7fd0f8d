package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

const (
	// DefaultMaxDeliveries bounds how often a failing event is redelivered.
	DefaultMaxDeliveries = 5
	// DefaultHandlerTimeout bounds a single handler call.
	DefaultHandlerTimeout = 10 * time.Second
)

// Handler processes a single event.
type Handler[T any] func(ctx context.Context, event *T) error

// ConsumerOption tunes a Consumer.
type ConsumerOption func(*consumerConfig)

type consumerConfig struct {
	maxDeliveries  int
	handlerTimeout time.Duration
}

// WithMaxDeliveries sets how many times an event is handed to the handler
// before it is acked and dropped.
func WithMaxDeliveries(n int) ConsumerOption {
	return func(c *consumerConfig) {
		if n > 0 {
			c.maxDeliveries = n
		}
	}
}

// WithHandlerTimeout bounds each handler call.
func WithHandlerTimeout(d time.Duration) ConsumerOption {
	return func(c *consumerConfig) {
		if d > 0 {
			c.handlerTimeout = d
		}
	}
}

// Consumer decodes the JSON events of one topic and hands them to a Handler.
//
// Payloads that do not decode are acked and dropped. Handler failures are
// nacked for redelivery until the event reaches its delivery limit, after
// which it is acked and logged as abandoned.
type Consumer[T any] struct {
	subscriber message.Subscriber
	topic      string
	handler    Handler[T]
	cfg        consumerConfig
	logger     *zap.Logger

	// deliveries is only touched by the run goroutine.
	deliveries map[string]int
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewConsumer[T any](
	subscriber message.Subscriber,
	topic string,
	handler Handler[T],
	logger *zap.Logger,
	opts ...ConsumerOption,
) *Consumer[T] {
	cfg := consumerConfig{
		maxDeliveries:  DefaultMaxDeliveries,
		handlerTimeout: DefaultHandlerTimeout,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Consumer[T]{
		subscriber: subscriber,
		topic:      topic,
		handler:    handler,
		cfg:        cfg,
		logger:     logger.With(zap.String("topic", topic)),
		deliveries: make(map[string]int),
		done:       make(chan struct{}),
	}
}

func (c *Consumer[T]) Topic() string {
	return c.topic
}

// Start subscribes to the topic and processes events in the background
// until Shutdown is called or the subscription closes.
func (c *Consumer[T]) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	msgs, err := c.subscriber.Subscribe(ctx, c.topic)
	if err != nil {
		c.cancel()
		close(c.done)

		return err
	}

	go c.run(ctx, msgs)

	return nil
}

func (c *Consumer[T]) run(ctx context.Context, msgs <-chan *message.Message) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			c.process(ctx, msg)
		}
	}
}

func (c *Consumer[T]) process(ctx context.Context, msg *message.Message) {
	log := c.logger.With(zap.String("message_id", msg.UUID))

	var event T
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Error("dropping malformed event", zap.Error(err))
		msg.Ack()

		return
	}

	c.deliveries[msg.UUID]++
	attempt := c.deliveries[msg.UUID]

	handlerCtx, cancel := context.WithTimeout(ctx, c.cfg.handlerTimeout)
	err := c.handler(handlerCtx, &event)

	cancel()

	switch {
	case err == nil:
		delete(c.deliveries, msg.UUID)
		msg.Ack()
		log.Debug("processed event", zap.Int("attempt", attempt))
	case attempt >= c.cfg.maxDeliveries:
		delete(c.deliveries, msg.UUID)
		msg.Ack()
		log.Error("abandoning event after repeated failures",
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
	default:
		log.Warn("event handler failed, requesting redelivery",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		msg.Nack()
	}
}

// Shutdown stops the consumer and waits for the in-flight event.
func (c *Consumer[T]) Shutdown() error {
	if c.cancel != nil {
		c.cancel()
	}

	<-c.done

	return nil
}
