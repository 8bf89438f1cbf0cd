package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DioGolang/GoPOS/configs"
	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/internal/application/usecase/shopping"
	"github.com/DioGolang/GoPOS/internal/infra/database"
	"github.com/DioGolang/GoPOS/internal/infra/document"
	"github.com/DioGolang/GoPOS/internal/infra/event"
	grpcsvc "github.com/DioGolang/GoPOS/internal/infra/grpc/service"
	"github.com/DioGolang/GoPOS/internal/infra/storage"
	"github.com/DioGolang/GoPOS/internal/infra/web/handler"
	webmw "github.com/DioGolang/GoPOS/internal/infra/web/middleware"
	"github.com/DioGolang/GoPOS/pkg/events"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/DioGolang/GoPOS/pkg/metrics"
	pkgotel "github.com/DioGolang/GoPOS/pkg/otel"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/riandyrn/otelchi"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const version = "1.0.0"

func main() {
	cfg, err := configs.LoadConfig(".")
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger(cfg.ServiceName, cfg.Environment == "production")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "API stopped with error", logger.WithError(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *configs.Conf, log logger.Logger) error {
	if cfg.OtelCollectorAddr != "" {
		shutdown, err := pkgotel.InitProvider(ctx, pkgotel.ProviderConfig{
			ServiceName:    cfg.ServiceName,
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

	registry := prometheus.NewRegistry()
	m := metrics.NewPrometheusMetrics(registry, cfg.ServiceName)

	uow, healthChecks, closeStore, err := newUnitOfWork(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []shopping.Option{shopping.WithMetrics(m)}
	dispatcher, closeBroker, err := newDispatcher(cfg, log)
	if err != nil {
		return err
	}
	defer closeBroker()
	if dispatcher != nil {
		opts = append(opts, shopping.WithEventDispatcher(dispatcher))
	}
	switch cfg.EventBroker {
	case configs.BrokerRabbitMQ:
		healthChecks = append(healthChecks, handler.WithRabbitMQ(cfg.AMQPURL))
	case configs.BrokerKafka:
		if len(cfg.KafkaBrokers) > 0 {
			healthChecks = append(healthChecks, handler.WithKafka(cfg.KafkaBrokers[0]))
		}
	}

	service := shopping.NewService(uow, log, opts...)
	coordinator := &shopping.CoordinatorMetricsDecorator{Next: service, Metrics: m}

	healthHandler, err := handler.NewHealthHandler(cfg.ServiceName, version, healthChecks...)
	if err != nil {
		return err
	}

	limiter := webmw.NewRateLimiter(ctx, webmw.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
		CleanupInterval:   time.Minute,
		ClientTimeout:     3 * time.Minute,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(otelchi.Middleware(cfg.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(webmw.RequestLogger(log))
	r.Use(webmw.MetricsWrapper(m, "/metrics", "/health"))

	r.Handle("/health", healthHandler)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler(log))
		handler.NewShoppingHandler(coordinator, log).Register(r)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.WebServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "Server running",
			logger.String("port", cfg.WebServerPort),
			logger.String("backend", cfg.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var grpcServer *grpc.Server
	if cfg.GRPCServerPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCServerPort)
		if err != nil {
			return err
		}
		grpcServer = grpcsvc.NewServer(coordinator, log)
		g.Go(func() error {
			log.Info(gctx, "gRPC server running", logger.String("port", cfg.GRPCServerPort))
			return grpcServer.Serve(lis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "Shutting down server")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

// newUnitOfWork opens the configured storage backend.
func newUnitOfWork(ctx context.Context, cfg *configs.Conf, log logger.Logger, m metrics.Metrics) (outbound.UnitOfWork, []handler.HealthOption, func(), error) {
	switch cfg.StorageBackend {
	case configs.BackendRedis:
		client, err := storage.NewRedisClient(ctx, cfg.RedisAddr())
		if err != nil {
			return nil, nil, nil, err
		}
		uow := document.NewUnitOfWork(client, log,
			document.WithKeyPrefix(cfg.RedisKeyPrefix),
			document.WithRetryPolicy(cfg.RetryPolicy()),
			document.WithMetrics(m),
		)
		return uow, []handler.HealthOption{handler.WithRedis(client)}, func() { _ = client.Close() }, nil

	default:
		isolation, err := database.ParseIsolation(cfg.DBIsolation)
		if err != nil {
			return nil, nil, nil, err
		}
		db, err := sql.Open(cfg.DBDriver, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		uow := database.NewUnitOfWork(db, log,
			database.WithIsolation(isolation),
			database.WithRetryPolicy(cfg.RetryPolicy()),
			database.WithMetrics(m),
		)
		return uow, []handler.HealthOption{handler.WithPostgres(db)}, func() { _ = db.Close() }, nil
	}
}

// newDispatcher returns a nil dispatcher when no broker is configured;
// checkouts then commit without publishing.
func newDispatcher(cfg *configs.Conf, log logger.Logger) (events.EventDispatcher, func(), error) {
	cb := event.NewCircuitBreaker("orders-closed-publisher", 30*time.Second, log)

	switch cfg.EventBroker {
	case configs.BrokerRabbitMQ:
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		closeFn := func() {
			_ = ch.Close()
			_ = conn.Close()
		}
		return event.NewBreakerDispatcher(event.NewDispatcher(ch, event.DefaultExchange), cb), closeFn, nil

	case configs.BrokerKafka:
		writer := event.NewKafkaWriter(cfg.KafkaBrokers)
		closeFn := func() { _ = writer.Close() }
		return event.NewBreakerDispatcher(event.NewKafkaDispatcher(writer, cfg.OrdersClosedTopic), cb), closeFn, nil

	default:
		return nil, func() {}, nil
	}
}
