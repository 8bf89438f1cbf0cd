package event

import (
	"context"
	"encoding/json"

	"github.com/DioGolang/GoPOS/pkg/events"
	carrier "github.com/DioGolang/GoPOS/pkg/otel"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

const DefaultExchange = "amq.direct"

// Publisher is the part of *amqp.Channel the dispatcher needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Dispatcher publishes events to RabbitMQ using the event name as routing
// key.
type Dispatcher struct {
	publisher Publisher
	exchange  string
}

func NewDispatcher(p Publisher, exchange string) *Dispatcher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Dispatcher{publisher: p, exchange: exchange}
}

func (d *Dispatcher) Dispatch(ctx context.Context, event events.Event) error {
	eventID := uuid.NewString()
	headers := amqp.Table{
		HeaderEventID:   eventID,
		HeaderEventName: event.GetName(),
	}
	otel.GetTextMapPropagator().Inject(ctx, carrier.AMQPHeadersCarrier(headers))

	payload, err := json.Marshal(event.GetPayload())
	if err != nil {
		return err
	}

	return d.publisher.PublishWithContext(
		ctx,
		d.exchange,
		event.GetName(),
		false,
		false,
		amqp.Publishing{
			Headers:      headers,
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    eventID,
			Timestamp:    event.GetDateTime(),
			Body:         payload,
		})
}
