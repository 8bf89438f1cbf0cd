package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DioGolang/GoPOS/configs"
	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/internal/application/usecase/shopping"
	"github.com/DioGolang/GoPOS/internal/infra/event"
	"github.com/DioGolang/GoPOS/internal/infra/storage"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/DioGolang/GoPOS/pkg/metrics"
	pkgotel "github.com/DioGolang/GoPOS/pkg/otel"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	handlerName = "order_receipt"
	version     = "1.0.0"
)

func main() {
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		panic(err)
	}
	log := logger.NewLogger(cfg.ServiceName+"-worker", cfg.Environment == "production")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "Worker stopped with error", logger.WithError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *configs.Conf, log logger.Logger) error {
	if cfg.OtelCollectorAddr != "" {
		shutdown, err := pkgotel.InitProvider(ctx, pkgotel.ProviderConfig{
			ServiceName:    cfg.ServiceName + "-worker",
			ServiceVersion: version,
			Environment:    cfg.Environment,
			CollectorAddr:  cfg.OtelCollectorAddr,
			SampleRatio:    cfg.TraceSampleRatio,
		})
		if err != nil {
			return err
		}
		defer shutdown()
	}

	m := metrics.NewPrometheusMetrics(prometheus.DefaultRegisterer, cfg.ServiceName+"-worker")

	rdb, err := storage.NewRedisClient(ctx, cfg.RedisAddr())
	if err != nil {
		return err
	}
	defer rdb.Close()

	// outermost first: dedup, then retries, then timeout and breaker per attempt
	h := event.NewReceiptHandler(log)
	h = event.WrapResilientConsumer(m, handlerName, 5*time.Second,
		event.NewCircuitBreaker(handlerName, 30*time.Second, log), h)
	h = event.WrapExponentialBackoff(log, m, handlerName, outbound.RetryPolicy{
		MaxRetries: 3,
		BaseWait:   200 * time.Millisecond,
		MaxWait:    2 * time.Second,
	}, h)
	h = event.WrapIdempotency(log, storage.NewRedisAdapter(rdb, cfg.RedisKeyPrefix), handlerName, 24*time.Hour, h)

	log.Info(ctx, "Worker started", logger.String("broker", cfg.EventBroker))

	if cfg.EventBroker == configs.BrokerKafka {
		reader := event.NewKafkaReader(cfg.KafkaBrokers, cfg.OrdersClosedTopic, cfg.ServiceName+"-receipts")
		defer reader.Close()
		return event.NewKafkaConsumer(reader, h, log).Start(ctx)
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return event.NewConsumer(conn, h, log).Start(ctx, "orders.closed.receipts", shopping.OrderClosedEvent)
}
