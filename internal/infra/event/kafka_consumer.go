package event

import (
	"context"
	"errors"

	"github.com/DioGolang/GoPOS/pkg/logger"
	carrier "github.com/DioGolang/GoPOS/pkg/otel"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
}

// KafkaConsumer commits an offset once the handler succeeds or the message
// is poison. Other failures stop the loop so the message is fetched again
// after a restart.
type KafkaConsumer struct {
	Reader  MessageReader
	Handler MessageHandler
	Logger  logger.Logger
}

func NewKafkaConsumer(r MessageReader, handler MessageHandler, l logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{Reader: r, Handler: handler, Logger: l}
}

func (c *KafkaConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := c.handle(ctx, msg); err != nil {
			return err
		}
		if err := c.Reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *KafkaConsumer) handle(parent context.Context, msg kafka.Message) error {
	ctx := carrier.ExtractKafkaHeaders(parent, msg.Headers)
	ctx, span := otel.Tracer("gopos/worker").Start(ctx, "ProcessMessage", trace.WithAttributes(
		attribute.String("messaging.destination", msg.Topic),
		attribute.Int64("messaging.kafka.offset", msg.Offset),
	))
	defer span.End()

	err := c.Handler(ctx, msg.Value, carrier.KafkaHeadersToMap(msg.Headers))
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if errors.Is(err, ErrPoisonMessage) {
		c.Logger.Error(ctx, "Skipping message that cannot be processed",
			logger.String("topic", msg.Topic),
			logger.Int("partition", msg.Partition),
			logger.WithError(err),
		)
		return nil
	}
	return err
}
