package document

import (
	"context"
	"errors"
	"time"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/DioGolang/GoPOS/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const Backend = "redis"

// RepositoryProviderImpl hands out repositories that all share one session.
type RepositoryProviderImpl struct {
	s *session
}

func (p *RepositoryProviderImpl) Product() outbound.ProductRepository {
	return &ProductRepositoryImpl{s: p.s}
}

func (p *RepositoryProviderImpl) Stock() outbound.StockRepository {
	return &StockRepositoryImpl{s: p.s}
}

func (p *RepositoryProviderImpl) Order() outbound.OrderRepository {
	return &OrderRepositoryImpl{s: p.s}
}

func (p *RepositoryProviderImpl) OrderItem() outbound.OrderItemRepository {
	return &OrderItemRepositoryImpl{s: p.s}
}

type UnitOfWorkImpl struct {
	client  *redis.Client
	keys    Keyspace
	retry   outbound.RetryPolicy
	logger  logger.Logger
	metrics metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*UnitOfWorkImpl)

func WithKeyPrefix(prefix string) Option {
	return func(u *UnitOfWorkImpl) { u.keys = NewKeyspace(prefix) }
}

func WithRetryPolicy(p outbound.RetryPolicy) Option {
	return func(u *UnitOfWorkImpl) { u.retry = p }
}

func WithMetrics(m metrics.Metrics) Option {
	return func(u *UnitOfWorkImpl) { u.metrics = m }
}

func NewUnitOfWork(client *redis.Client, log logger.Logger, opts ...Option) *UnitOfWorkImpl {
	u := &UnitOfWorkImpl{
		client:  client,
		keys:    NewKeyspace(""),
		retry:   outbound.DefaultRetryPolicy(),
		logger:  log,
		metrics: metrics.Noop{},
		tracer:  otel.Tracer("gopos/document"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// IsConflict reports an EXEC aborted because a watched key changed.
func IsConflict(err error) bool {
	return errors.Is(err, redis.TxFailedErr)
}

func (u *UnitOfWorkImpl) Do(ctx context.Context, fn func(provider outbound.RepositoryProvider) error) error {
	start := time.Now()
	ctx, span := u.tracer.Start(ctx, "UnitOfWork", trace.WithAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.key_prefix", u.keys.Prefix),
	))
	defer span.End()

	err := u.retry.Execute(ctx, IsConflict, func() error {
		return u.attempt(ctx, fn)
	}, func(attempt int, wait time.Duration, err error) {
		u.metrics.IncTransactionConflict(Backend)
		u.logger.Warn(ctx, "Watched key changed, rerunning unit of work",
			logger.Int("attempt", attempt),
			logger.Duration("wait", wait),
			logger.WithError(err),
		)
	})

	u.metrics.RecordTransaction(Backend, err == nil, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return outbound.NewTransactionError(err)
	}
	return nil
}

// attempt runs fn against a fresh session. Nothing reaches Redis unless fn
// succeeds and EXEC is accepted; the session is closed on return either way.
func (u *UnitOfWorkImpl) attempt(ctx context.Context, fn func(provider outbound.RepositoryProvider) error) error {
	return u.client.Watch(ctx, func(tx *redis.Tx) error {
		s := newSession(tx, u.keys)
		defer s.close()

		if err := fn(&RepositoryProviderImpl{s: s}); err != nil {
			return err
		}
		return s.commit(ctx)
	})
}
