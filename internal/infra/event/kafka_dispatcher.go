package event

import (
	"context"
	"encoding/json"

	"github.com/DioGolang/GoPOS/pkg/events"
	carrier "github.com/DioGolang/GoPOS/pkg/otel"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// KafkaDispatcher writes events to a single topic keyed by aggregate id so
// that events of one order stay ordered.
type KafkaDispatcher struct {
	writer MessageWriter
	topic  string
}

func NewKafkaDispatcher(w MessageWriter, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{writer: w, topic: topic}
}

type keyed interface {
	AggregateID() string
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event.GetPayload())
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: d.topic,
		Value: payload,
		Time:  event.GetDateTime(),
		Headers: carrier.InjectKafkaHeaders(ctx, []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventName, Value: []byte(event.GetName())},
		}),
	}
	if k, ok := event.GetPayload().(keyed); ok {
		msg.Key = []byte(k.AggregateID())
	}
	return d.writer.WriteMessages(ctx, msg)
}
