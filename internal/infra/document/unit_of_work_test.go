package document

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/DioGolang/GoPOS/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestUnitOfWork_CommitsAllWritesTogether(t *testing.T) {
	mr, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop(), WithKeyPrefix("test"))
	ctx := context.Background()

	var productID string
	err := uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		product, err := entity.NewProduct("Tea", decimal.RequireFromString("1.50"))
		require.NoError(t, err)
		if err := p.Product().Save(ctx, product); err != nil {
			return err
		}
		stock, err := entity.NewStock(product.ID(), 12)
		require.NoError(t, err)
		if err := p.Stock().Save(ctx, stock); err != nil {
			return err
		}
		productID = product.ID()

		// read-your-writes across repositories of the same provider
		found, err := p.Stock().FindByProductID(ctx, product.ID())
		require.NoError(t, err)
		assert.Equal(t, 12, found.Quantity())
		assert.False(t, mr.Exists("test:product:"+product.ID()), "nothing is visible before commit")
		return nil
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:product:"+productID))
	assert.True(t, mr.Exists("test:stock:byproduct:"+productID))
	members, err := mr.SMembers("test:products")
	require.NoError(t, err)
	assert.Equal(t, []string{productID}, members)
}

func TestUnitOfWork_FailureLeavesNothingBehind(t *testing.T) {
	mr, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()
	boom := errors.New("boom")

	err := uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		order := entity.NewOrder()
		if err := p.Order().Save(ctx, order); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, outbound.ErrTransactionFailed)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, mr.Keys())
}

func TestUnitOfWork_ProviderIsClosedAfterDo(t *testing.T) {
	_, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()

	var leaked outbound.RepositoryProvider
	var orders outbound.OrderRepository
	require.NoError(t, uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		leaked = p
		orders = p.Order()
		return nil
	}))

	_, err := orders.FindByID(ctx, "anything")
	assert.ErrorIs(t, err, outbound.ErrTransactionClosed)
	err = leaked.Product().Save(ctx, entity.RestoreProduct("", "Tea", decimal.NewFromInt(1)))
	assert.ErrorIs(t, err, outbound.ErrTransactionClosed)
}

func TestUnitOfWork_RerunsWhenWatchedKeyChanges(t *testing.T) {
	mr, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()

	var orderID string
	require.NoError(t, uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		order := entity.NewOrder()
		err := p.Order().Save(ctx, order)
		orderID = order.ID()
		return err
	}))

	runs := 0
	err := uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		runs++
		order, err := p.Order().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if runs == 1 {
			// concurrent writer touches the watched document
			require.NoError(t, mr.Set("pos:order:"+orderID, `{"id":"`+orderID+`","status":"OPEN"}`))
		}
		if err := order.Close(); err != nil {
			return err
		}
		return p.Order().Update(ctx, order)
	})

	require.NoError(t, err)
	assert.Equal(t, 2, runs)
	raw, err := mr.Get("pos:order:" + orderID)
	require.NoError(t, err)
	assert.Contains(t, raw, `"status":"CLOSED"`)
}

func TestOrderRepository_DeleteRefusesOrderWithItems(t *testing.T) {
	_, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()

	err := uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		product, _ := entity.NewProduct("Tea", decimal.NewFromInt(2))
		if err := p.Product().Save(ctx, product); err != nil {
			return err
		}
		order := entity.NewOrder()
		if err := p.Order().Save(ctx, order); err != nil {
			return err
		}
		item, err := entity.NewOrderItem(product, order, 1)
		require.NoError(t, err)
		if err := p.OrderItem().Save(ctx, item); err != nil {
			return err
		}
		assert.ErrorIs(t, p.Order().Delete(ctx, order.ID()), entity.ErrOrderHasItems)

		require.NoError(t, p.OrderItem().Delete(ctx, item.ID()))
		_, err = p.OrderItem().FindByProductAndOrderID(ctx, product.ID(), order.ID())
		assert.ErrorIs(t, err, entity.ErrNotFound)
		return p.Order().Delete(ctx, order.ID())
	})
	require.NoError(t, err)
}

func TestOrderItemRepository_ListReflectsSessionWrites(t *testing.T) {
	_, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()

	var orderID, keptID string
	require.NoError(t, uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		order := entity.NewOrder()
		if err := p.Order().Save(ctx, order); err != nil {
			return err
		}
		orderID = order.ID()
		for _, name := range []string{"Tea", "Coffee"} {
			product, _ := entity.NewProduct(name, decimal.NewFromInt(3))
			if err := p.Product().Save(ctx, product); err != nil {
				return err
			}
			item, err := entity.NewOrderItem(product, order, 2)
			require.NoError(t, err)
			if err := p.OrderItem().Save(ctx, item); err != nil {
				return err
			}
			keptID = item.ID()
		}
		return nil
	}))

	require.NoError(t, uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		items, err := p.OrderItem().ListByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		for _, item := range items {
			if item.ID() != keptID {
				require.NoError(t, p.OrderItem().Delete(ctx, item.ID()))
			}
		}
		items, err = p.OrderItem().ListByOrderID(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, keptID, items[0].ID())
		assert.True(t, items[0].Subtotal().Equal(decimal.NewFromInt(6)))
		return nil
	}))
}

func TestStockRepository_MissingStockIsNotFound(t *testing.T) {
	_, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()

	err := uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		_, err := p.Stock().FindByProductID(ctx, "missing")
		return err
	})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

// watchCounter counts WATCH commands per key.
type watchCounter struct {
	mu   sync.Mutex
	keys map[string]int
}

func (w *watchCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (w *watchCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "watch" {
			w.mu.Lock()
			for _, arg := range cmd.Args()[1:] {
				w.keys[fmt.Sprint(arg)]++
			}
			w.mu.Unlock()
		}
		return next(ctx, cmd)
	}
}

func (w *watchCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func seedStock(t *testing.T, uow *UnitOfWorkImpl, quantity int) (productID, stockID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		product, _ := entity.NewProduct("Tea", decimal.NewFromInt(2))
		if err := p.Product().Save(ctx, product); err != nil {
			return err
		}
		stock, _ := entity.NewStock(product.ID(), quantity)
		if err := p.Stock().Save(ctx, stock); err != nil {
			return err
		}
		productID, stockID = product.ID(), stock.ID()
		return nil
	}))
	return productID, stockID
}

func TestSession_WatchesEachKeyOnce(t *testing.T) {
	_, client := setupRedis(t)
	counter := &watchCounter{keys: make(map[string]int)}
	client.AddHook(counter)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()
	productID, stockID := seedStock(t, uow, 10)

	require.NoError(t, uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		for i := 0; i < 3; i++ {
			stock, err := p.Stock().FindByProductID(ctx, productID)
			if err != nil {
				return err
			}
			if err := stock.Decrease(1, "Tea"); err != nil {
				return err
			}
			if err := p.Stock().Update(ctx, stock); err != nil {
				return err
			}
		}
		return nil
	}))

	assert.Equal(t, 1, counter.keys["pos:stock:"+stockID])
	assert.Equal(t, 1, counter.keys["pos:stock:byproduct:"+productID])
}

func TestUnitOfWork_StockChangedBetweenReadAndUpdateIsRerun(t *testing.T) {
	mr, client := setupRedis(t)
	uow := NewUnitOfWork(client, logger.NewNop())
	ctx := context.Background()
	productID, stockID := seedStock(t, uow, 10)

	runs := 0
	require.NoError(t, uow.Do(ctx, func(p outbound.RepositoryProvider) error {
		runs++
		stock, err := p.Stock().FindByProductID(ctx, productID)
		if err != nil {
			return err
		}
		if runs == 1 {
			// another buyer commits between our read and our write
			doc := fmt.Sprintf(`{"id":%q,"product_id":%q,"quantity":7}`, stockID, productID)
			require.NoError(t, mr.Set("pos:stock:"+stockID, doc))
		}
		if err := stock.Decrease(2, "Tea"); err != nil {
			return err
		}
		return p.Stock().Update(ctx, stock)
	}))

	assert.Equal(t, 2, runs)
	raw, err := mr.Get("pos:stock:" + stockID)
	require.NoError(t, err)
	assert.Contains(t, raw, `"quantity":5`)
}
