package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/DioGolang/GoPOS/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const Backend = "postgres"

type RepositoryProviderImpl struct {
	queries *Queries
}

func (p *RepositoryProviderImpl) Product() outbound.ProductRepository {
	return NewProductRepository(p.queries)
}

func (p *RepositoryProviderImpl) Stock() outbound.StockRepository {
	return NewStockRepository(p.queries)
}

func (p *RepositoryProviderImpl) Order() outbound.OrderRepository {
	return NewOrderRepository(p.queries)
}

func (p *RepositoryProviderImpl) OrderItem() outbound.OrderItemRepository {
	return NewOrderItemRepository(p.queries)
}

type UnitOfWorkImpl struct {
	db        *sql.DB
	isolation sql.IsolationLevel
	retry     outbound.RetryPolicy
	logger    logger.Logger
	metrics   metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*UnitOfWorkImpl)

func WithIsolation(level sql.IsolationLevel) Option {
	return func(u *UnitOfWorkImpl) { u.isolation = level }
}

func WithRetryPolicy(p outbound.RetryPolicy) Option {
	return func(u *UnitOfWorkImpl) { u.retry = p }
}

func WithMetrics(m metrics.Metrics) Option {
	return func(u *UnitOfWorkImpl) { u.metrics = m }
}

func NewUnitOfWork(db *sql.DB, log logger.Logger, opts ...Option) *UnitOfWorkImpl {
	u := &UnitOfWorkImpl{
		db:        db,
		isolation: sql.LevelReadCommitted,
		retry:     outbound.DefaultRetryPolicy(),
		logger:    log,
		metrics:   metrics.Noop{},
		tracer:    otel.Tracer("gopos/database"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *UnitOfWorkImpl) Do(ctx context.Context, fn func(provider outbound.RepositoryProvider) error) error {
	start := time.Now()
	ctx, span := u.tracer.Start(ctx, "UnitOfWork", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.isolation", u.isolation.String()),
	))
	defer span.End()

	err := u.retry.Execute(ctx, IsConflict, func() error {
		return u.attempt(ctx, fn)
	}, func(attempt int, wait time.Duration, err error) {
		u.metrics.IncTransactionConflict(Backend)
		u.logger.Warn(ctx, "Transaction conflict, rerunning unit of work",
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

// attempt runs fn once in a fresh transaction. The provider handed to fn is
// bound to tx, so it fails with sql.ErrTxDone once attempt returns. A panic
// in fn rolls back before it propagates so the row locks are released.
func (u *UnitOfWorkImpl) attempt(ctx context.Context, fn func(provider outbound.RepositoryProvider) error) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: u.isolation})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	provider := &RepositoryProviderImpl{
		queries: New(u.db).WithTx(tx),
	}

	if err := fn(provider); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// ParseIsolation accepts the names used in configuration, e.g.
// "read committed" or "serializable".
func ParseIsolation(name string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "read committed", "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable read", "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	default:
		return sql.LevelDefault, fmt.Errorf("unsupported isolation level %q", name)
	}
}
