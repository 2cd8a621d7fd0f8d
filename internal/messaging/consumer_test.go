package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/foodgram-go/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type visit struct {
	Code string `json:"code"`
}

// fakeSubscriber hands out one shared channel for every topic.
type fakeSubscriber struct {
	msgs         chan *message.Message
	subscribeErr error

	mu     sync.Mutex
	topics []string
	closed bool
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{msgs: make(chan *message.Message, 10)}
}

func (s *fakeSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subscribeErr != nil {
		return nil, s.subscribeErr
	}

	s.topics = append(s.topics, topic)

	return s.msgs, nil
}

func (s *fakeSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.msgs)
	}

	return nil
}

func visitMessage(t *testing.T, id, code string) *message.Message {
	t.Helper()

	payload, err := json.Marshal(visit{Code: code})
	require.NoError(t, err)

	return message.NewMessage(id, payload)
}

// outcome waits until msg is acked or nacked.
func outcome(t *testing.T, msg *message.Message) string {
	t.Helper()

	select {
	case <-msg.Acked():
		return "ack"
	case <-msg.Nacked():
		return "nack"
	case <-time.After(time.Second):
		t.Fatal("message was neither acked nor nacked")

		return ""
	}
}

func startConsumer(
	t *testing.T,
	sub *fakeSubscriber,
	handler messaging.Handler[visit],
	opts ...messaging.ConsumerOption,
) *messaging.Consumer[visit] {
	t.Helper()

	consumer := messaging.NewConsumer(sub, "shortlink.resolved", handler, zap.NewNop(), opts...)
	require.NoError(t, consumer.Start(context.Background()))
	t.Cleanup(func() { _ = consumer.Shutdown() })

	return consumer
}

func TestConsumer_Start(t *testing.T) {
	t.Run("subscribes to its topic", func(t *testing.T) {
		sub := newFakeSubscriber()

		consumer := startConsumer(t, sub, func(context.Context, *visit) error { return nil })

		assert.Equal(t, "shortlink.resolved", consumer.Topic())
		assert.Equal(t, []string{"shortlink.resolved"}, sub.topics)
	})

	t.Run("subscribe failure is returned and shutdown does not block", func(t *testing.T) {
		sub := &fakeSubscriber{subscribeErr: errors.New("stream unavailable")}
		consumer := messaging.NewConsumer(sub, "shortlink.resolved",
			func(context.Context, *visit) error { return nil }, zap.NewNop())

		require.ErrorContains(t, consumer.Start(context.Background()), "stream unavailable")
		assert.NoError(t, consumer.Shutdown())
	})

	t.Run("stops when the subscription closes", func(t *testing.T) {
		sub := newFakeSubscriber()
		consumer := startConsumer(t, sub, func(context.Context, *visit) error { return nil })

		require.NoError(t, sub.Close())

		assert.NoError(t, consumer.Shutdown())
	})
}

func TestConsumer_Process(t *testing.T) {
	t.Run("decodes and acks handled events", func(t *testing.T) {
		sub := newFakeSubscriber()
		got := make(chan visit, 1)
		startConsumer(t, sub, func(_ context.Context, v *visit) error {
			got <- *v

			return nil
		})

		msg := visitMessage(t, uuid.NewString(), "kw4nXfUH")
		sub.msgs <- msg

		assert.Equal(t, "ack", outcome(t, msg))
		assert.Equal(t, visit{Code: "kw4nXfUH"}, <-got)
	})

	t.Run("malformed payloads are acked without reaching the handler", func(t *testing.T) {
		sub := newFakeSubscriber()
		called := false
		startConsumer(t, sub, func(context.Context, *visit) error {
			called = true

			return nil
		})

		msg := message.NewMessage(uuid.NewString(), []byte("{not json"))
		sub.msgs <- msg

		assert.Equal(t, "ack", outcome(t, msg))
		assert.False(t, called)
	})

	t.Run("handler failures are nacked until the delivery limit", func(t *testing.T) {
		sub := newFakeSubscriber()
		calls := 0
		startConsumer(t, sub, func(context.Context, *visit) error {
			calls++

			return errors.New("database down")
		}, messaging.WithMaxDeliveries(3))

		id := uuid.NewString()

		for _, want := range []string{"nack", "nack", "ack"} {
			msg := visitMessage(t, id, "kw4nXfUH")
			sub.msgs <- msg

			assert.Equal(t, want, outcome(t, msg))
		}

		assert.Equal(t, 3, calls)
	})

	t.Run("a redelivered event that succeeds resets its count", func(t *testing.T) {
		sub := newFakeSubscriber()
		fail := true
		startConsumer(t, sub, func(context.Context, *visit) error {
			if fail {
				fail = false

				return errors.New("temporary")
			}

			return nil
		}, messaging.WithMaxDeliveries(2))

		id := uuid.NewString()
		first := visitMessage(t, id, "kw4nXfUH")
		sub.msgs <- first
		require.Equal(t, "nack", outcome(t, first))

		second := visitMessage(t, id, "kw4nXfUH")
		sub.msgs <- second
		assert.Equal(t, "ack", outcome(t, second))
	})

	t.Run("handler context carries a deadline", func(t *testing.T) {
		sub := newFakeSubscriber()
		deadlines := make(chan time.Duration, 1)
		startConsumer(t, sub, func(ctx context.Context, _ *visit) error {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)

			deadlines <- time.Until(deadline)

			return nil
		}, messaging.WithHandlerTimeout(time.Minute))

		msg := visitMessage(t, uuid.NewString(), "kw4nXfUH")
		sub.msgs <- msg

		require.Equal(t, "ack", outcome(t, msg))
		remaining := <-deadlines
		assert.Greater(t, remaining, 50*time.Second)
		assert.LessOrEqual(t, remaining, time.Minute)
	})
}
