package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/DioGolang/GoPOS/pkg/logger"
	carrier "github.com/DioGolang/GoPOS/pkg/otel"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Consumer feeds deliveries of one queue to a MessageHandler. A delivery is
// acked when the handler succeeds; poison messages are dropped and any
// other failure is requeued.
type Consumer struct {
	Conn    *amqp.Connection
	Handler MessageHandler
	Logger  logger.Logger
}

func NewConsumer(conn *amqp.Connection, handler MessageHandler, l logger.Logger) *Consumer {
	return &Consumer{
		Conn:    conn,
		Handler: handler,
		Logger:  l,
	}
}

// Start blocks until ctx is cancelled or the broker closes the channel.
func (c *Consumer) Start(ctx context.Context, queueName, routingKey string) error {
	ch, err := c.Conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := c.setupTopology(ch, queueName, routingKey); err != nil {
		return fmt.Errorf("error when configuring topology: %w", err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return err
	}

	msgs, err := ch.ConsumeWithContext(ctx, queueName, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.Logger.Info(ctx, "Waiting for messages", logger.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, queueName, d)
		}
	}
}

func (c *Consumer) handle(parent context.Context, queueName string, d amqp.Delivery) {
	ctx := otel.GetTextMapPropagator().Extract(parent, carrier.AMQPHeadersCarrier(d.Headers))
	ctx, span := otel.Tracer("gopos/worker").Start(ctx, "ProcessMessage", trace.WithAttributes(
		attribute.String("queue.name", queueName),
		attribute.String("messaging.message_id", d.MessageId),
	))
	defer span.End()

	err := c.Handler(ctx, d.Body, d.Headers)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrPoisonMessage):
		c.Logger.Error(ctx, "Dropping message that cannot be processed",
			logger.String("queue", queueName),
			logger.WithError(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		_ = d.Nack(false, false)
	default:
		c.Logger.Warn(ctx, "Message processing failed, requeueing",
			logger.String("queue", queueName),
			logger.WithError(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		_ = d.Nack(false, true)
	}
}

func (c *Consumer) setupTopology(ch *amqp.Channel, queueName, routingKey string) error {
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(queueName, routingKey, DefaultExchange, false, nil)
}
