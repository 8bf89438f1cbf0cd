package configs

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	BrokerRabbitMQ = "rabbitmq"
	BrokerKafka    = "kafka"
)

type Conf struct {
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBIsolation string `mapstructure:"DB_ISOLATION"`

	RedisHost      string `mapstructure:"REDIS_HOST"`
	RedisPort      string `mapstructure:"REDIS_PORT"`
	RedisKeyPrefix string `mapstructure:"REDIS_KEY_PREFIX"`

	TxMaxConflictRetries int           `mapstructure:"TX_MAX_CONFLICT_RETRIES"`
	TxRetryBaseWait      time.Duration `mapstructure:"TX_RETRY_BASE_WAIT"`

	WebServerPort  string `mapstructure:"WEB_SERVER_PORT"`
	GRPCServerPort string `mapstructure:"GRPC_SERVER_PORT"`
	RateLimitRPS   int    `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int    `mapstructure:"RATE_LIMIT_BURST"`

	AMQPURL           string   `mapstructure:"AMQP_URL"`
	EventBroker       string   `mapstructure:"EVENT_BROKER"`
	KafkaBrokers      []string `mapstructure:"KAFKA_BROKERS"`
	OrdersClosedTopic string   `mapstructure:"ORDERS_CLOSED_TOPIC"`

	OtelCollectorAddr string  `mapstructure:"OTEL_COLLECTOR_ADDR"`
	TraceSampleRatio  float64 `mapstructure:"TRACE_SAMPLE_RATIO"`
	ServiceName       string  `mapstructure:"SERVICE_NAME"`
	Environment       string  `mapstructure:"ENVIRONMENT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("STORAGE_BACKEND", BackendPostgres)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "gopos")
	v.SetDefault("DB_ISOLATION", "read committed")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_KEY_PREFIX", "pos")
	v.SetDefault("TX_MAX_CONFLICT_RETRIES", 32)
	v.SetDefault("TX_RETRY_BASE_WAIT", "2ms")
	v.SetDefault("WEB_SERVER_PORT", "8080")
	v.SetDefault("GRPC_SERVER_PORT", "50051")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("EVENT_BROKER", "")
	v.SetDefault("KAFKA_BROKERS", []string{"localhost:9092"})
	v.SetDefault("ORDERS_CLOSED_TOPIC", "orders.closed")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "")
	v.SetDefault("TRACE_SAMPLE_RATIO", 1.0)
	v.SetDefault("SERVICE_NAME", "gopos")
	v.SetDefault("ENVIRONMENT", "development")
}

// LoadConfig reads path/.env when present; environment variables override
// the file and the defaults.
func LoadConfig(path string) (*Conf, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Conf
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Conf) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres, BackendRedis:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.EventBroker {
	case "", BrokerRabbitMQ, BrokerKafka:
	default:
		return fmt.Errorf("unknown EVENT_BROKER %q", c.EventBroker)
	}
	if c.EventBroker == BrokerRabbitMQ && c.AMQPURL == "" {
		return errors.New("AMQP_URL is required when EVENT_BROKER is rabbitmq")
	}
	if c.TxMaxConflictRetries < 0 {
		return errors.New("TX_MAX_CONFLICT_RETRIES must not be negative")
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return errors.New("TRACE_SAMPLE_RATIO must be between 0 and 1")
	}
	return nil
}

func (c *Conf) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func (c *Conf) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func (c *Conf) RetryPolicy() outbound.RetryPolicy {
	p := outbound.DefaultRetryPolicy()
	p.MaxRetries = c.TxMaxConflictRetries
	if c.TxRetryBaseWait > 0 {
		p.BaseWait = c.TxRetryBaseWait
	}
	return p
}
