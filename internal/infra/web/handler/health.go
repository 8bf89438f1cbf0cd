package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthRabbit "github.com/hellofresh/health-go/v5/checks/rabbitmq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// HealthOption registers one dependency probe. A nil client or empty
// address registers nothing, so main can pass every option unconditionally.
type HealthOption func(checks []health.Config) []health.Config

func probe(name string, timeout time.Duration, optional bool, check health.CheckFunc) HealthOption {
	return func(checks []health.Config) []health.Config {
		return append(checks, health.Config{
			Name:      name,
			Timeout:   timeout,
			SkipOnErr: optional,
			Check:     check,
		})
	}
}

func skip(checks []health.Config) []health.Config { return checks }

func WithPostgres(db *sql.DB) HealthOption {
	if db == nil {
		return skip
	}
	return probe("postgres", 5*time.Second, false, db.PingContext)
}

func WithRedis(rdb *redis.Client) HealthOption {
	if rdb == nil {
		return skip
	}
	return probe("redis", 3*time.Second, false, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}

// Brokers are optional: checkouts still commit while they are down, only
// the OrderClosed events are lost.

func WithRabbitMQ(dsn string) HealthOption {
	if dsn == "" {
		return skip
	}
	return probe("rabbitmq", 3*time.Second, true, healthRabbit.New(healthRabbit.Config{DSN: dsn}))
}

func WithKafka(broker string) HealthOption {
	if broker == "" {
		return skip
	}
	return probe("kafka", 3*time.Second, true, func(ctx context.Context) error {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			return err
		}
		return conn.Close()
	})
}

func NewHealthHandler(serviceName, version string, opts ...HealthOption) (http.Handler, error) {
	var checks []health.Config
	for _, opt := range opts {
		checks = opt(checks)
	}

	h, err := health.New(
		health.WithComponent(health.Component{Name: serviceName, Version: version}),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, err
	}
	return h.Handler(), nil
}
