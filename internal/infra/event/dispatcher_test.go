package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DioGolang/GoPOS/internal/application/usecase/shopping"
	"github.com/DioGolang/GoPOS/pkg/events"
	"github.com/DioGolang/GoPOS/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	calls []published
	err   error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.calls = append(f.calls, published{exchange: exchange, key: key, msg: msg})
	return f.err
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func orderClosed(orderID string) events.Event {
	e := events.New(shopping.OrderClosedEvent)
	e.SetPayload(shopping.OrderClosedPayload{
		OrderID:  orderID,
		Total:    decimal.RequireFromString("12.50"),
		ClosedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: []shopping.OrderClosedLine{
			{ItemID: "i1", ProductID: "p1", Quantity: 5, UnitPrice: decimal.RequireFromString("2.50"), Subtotal: decimal.RequireFromString("12.50")},
		},
	})
	return e
}

func TestDispatcher_PublishesJSONWithRoutingKey(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDispatcher(pub, "")

	require.NoError(t, d.Dispatch(context.Background(), orderClosed("o-1")))

	require.Len(t, pub.calls, 1)
	call := pub.calls[0]
	assert.Equal(t, DefaultExchange, call.exchange)
	assert.Equal(t, shopping.OrderClosedEvent, call.key)
	assert.Equal(t, "application/json", call.msg.ContentType)
	assert.NotEmpty(t, call.msg.Headers[HeaderEventID])
	assert.Equal(t, call.msg.MessageId, call.msg.Headers[HeaderEventID])

	var body shopping.OrderClosedPayload
	require.NoError(t, json.Unmarshal(call.msg.Body, &body))
	assert.Equal(t, "o-1", body.OrderID)
	assert.True(t, body.Total.Equal(decimal.RequireFromString("12.50")))
}

func TestKafkaDispatcher_KeysMessageByOrder(t *testing.T) {
	w := &fakeWriter{}
	d := NewKafkaDispatcher(w, "orders-closed")

	require.NoError(t, d.Dispatch(context.Background(), orderClosed("o-2")))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "orders-closed", msg.Topic)
	assert.Equal(t, []byte("o-2"), msg.Key)

	names := map[string]string{}
	for _, h := range msg.Headers {
		names[h.Key] = string(h.Value)
	}
	assert.Equal(t, shopping.OrderClosedEvent, names[HeaderEventName])
	assert.NotEmpty(t, names[HeaderEventID])
}

func TestBreakerDispatcher_OpensAfterConsecutiveFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection reset")}
	cb := NewCircuitBreaker("test-publisher", time.Minute, logger.NewNop())
	d := NewBreakerDispatcher(NewDispatcher(pub, ""), cb)

	for i := 0; i < 5; i++ {
		assert.EqualError(t, d.Dispatch(context.Background(), orderClosed("o")), "connection reset")
	}
	err := d.Dispatch(context.Background(), orderClosed("o"))

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, pub.calls, 5)
}
