package shopping

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/DioGolang/GoPOS/internal/application/port/outbound"
	"github.com/DioGolang/GoPOS/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// memoryStore is a serializable in-memory backend: one transaction at a
// time, each working on a private copy that replaces the state on commit.

type productRow struct {
	id, name string
	price    decimal.Decimal
}

type stockRow struct {
	id, productID string
	quantity      int
}

type itemRow struct {
	id, productID, orderID string
	unitPrice              decimal.Decimal
	quantity, version      int
}

type memoryState struct {
	products map[string]productRow
	stocks   map[string]stockRow
	orders   map[string]string
	items    map[string]itemRow
}

func (s memoryState) clone() memoryState {
	return memoryState{
		products: maps.Clone(s.products),
		stocks:   maps.Clone(s.stocks),
		orders:   maps.Clone(s.orders),
		items:    maps.Clone(s.items),
	}
}

type memoryStore struct {
	mu    sync.Mutex
	state memoryState
	seq   int
	calls int
	// failOn makes the named repository operation fail, e.g. "item.save".
	failOn string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: memoryState{
		products: map[string]productRow{},
		stocks:   map[string]stockRow{},
		orders:   map[string]string{},
		items:    map[string]itemRow{},
	}}
}

func (m *memoryStore) Do(ctx context.Context, fn func(provider outbound.RepositoryProvider) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	p := &memoryProvider{store: m, state: m.state.clone()}
	err := fn(p)
	p.closed = true
	if err != nil {
		return outbound.NewTransactionError(err)
	}
	m.state = p.state
	return nil
}

func (m *memoryStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// helpers reading committed state from tests

func (m *memoryStore) stockOf(productID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.state.stocks {
		if s.productID == productID {
			return s.quantity, true
		}
	}
	return 0, false
}

func (m *memoryStore) itemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.items)
}

func (m *memoryStore) orderStatus(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.state.orders[id]
	return status, ok
}

func (m *memoryStore) counts() (products, stocks, orders, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.products), len(m.state.stocks), len(m.state.orders), len(m.state.items)
}

type memoryProvider struct {
	store  *memoryStore
	state  memoryState
	closed bool
}

func (p *memoryProvider) Product() outbound.ProductRepository     { return &memoryProducts{p} }
func (p *memoryProvider) Stock() outbound.StockRepository         { return &memoryStocks{p} }
func (p *memoryProvider) Order() outbound.OrderRepository         { return &memoryOrders{p} }
func (p *memoryProvider) OrderItem() outbound.OrderItemRepository { return &memoryItems{p} }

func (p *memoryProvider) check(op string) error {
	if p.closed {
		return outbound.ErrTransactionClosed
	}
	if p.store.failOn == op {
		return fmt.Errorf("injected failure on %s", op)
	}
	return nil
}

type memoryProducts struct{ p *memoryProvider }

func (r *memoryProducts) FindAll(ctx context.Context) ([]*entity.Product, error) {
	if err := r.p.check("product.findAll"); err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(r.p.state.products))
	for _, row := range r.p.state.products {
		out = append(out, entity.RestoreProduct(row.id, row.name, row.price))
	}
	return out, nil
}

func (r *memoryProducts) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := r.p.check("product.find"); err != nil {
		return nil, err
	}
	row, ok := r.p.state.products[id]
	if !ok {
		return nil, entity.NewNotFoundError(entity.ProductEntity, id)
	}
	return entity.RestoreProduct(row.id, row.name, row.price), nil
}

func (r *memoryProducts) Save(ctx context.Context, product *entity.Product) error {
	if err := r.p.check("product.save"); err != nil {
		return err
	}
	product.AssignID(r.p.store.nextID("product"))
	r.p.state.products[product.ID()] = productRow{id: product.ID(), name: product.Name(), price: product.Price()}
	return nil
}

type memoryStocks struct{ p *memoryProvider }

func (r *memoryStocks) FindByProductID(ctx context.Context, productID string) (*entity.Stock, error) {
	if err := r.p.check("stock.find"); err != nil {
		return nil, err
	}
	for _, row := range r.p.state.stocks {
		if row.productID == productID {
			return entity.RestoreStock(row.id, row.productID, row.quantity), nil
		}
	}
	return nil, entity.NewNotFoundError(entity.StockEntity, productID)
}

func (r *memoryStocks) Save(ctx context.Context, stock *entity.Stock) error {
	if err := r.p.check("stock.save"); err != nil {
		return err
	}
	stock.AssignID(r.p.store.nextID("stock"))
	r.p.state.stocks[stock.ID()] = stockRow{id: stock.ID(), productID: stock.ProductID(), quantity: stock.Quantity()}
	return nil
}

func (r *memoryStocks) Update(ctx context.Context, stock *entity.Stock) error {
	if err := r.p.check("stock.update"); err != nil {
		return err
	}
	if _, ok := r.p.state.stocks[stock.ID()]; !ok {
		return entity.NewNotFoundError(entity.StockEntity, stock.ID())
	}
	r.p.state.stocks[stock.ID()] = stockRow{id: stock.ID(), productID: stock.ProductID(), quantity: stock.Quantity()}
	return nil
}

type memoryOrders struct{ p *memoryProvider }

func (r *memoryOrders) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	if err := r.p.check("order.find"); err != nil {
		return nil, err
	}
	status, ok := r.p.state.orders[id]
	if !ok {
		return nil, entity.NewNotFoundError(entity.OrderEntity, id)
	}
	return entity.RestoreOrder(id, status)
}

func (r *memoryOrders) Save(ctx context.Context, order *entity.Order) error {
	if err := r.p.check("order.save"); err != nil {
		return err
	}
	order.AssignID(r.p.store.nextID("order"))
	r.p.state.orders[order.ID()] = order.StatusName()
	return nil
}

func (r *memoryOrders) Update(ctx context.Context, order *entity.Order) error {
	if err := r.p.check("order.update"); err != nil {
		return err
	}
	if _, ok := r.p.state.orders[order.ID()]; !ok {
		return entity.NewNotFoundError(entity.OrderEntity, order.ID())
	}
	r.p.state.orders[order.ID()] = order.StatusName()
	return nil
}

func (r *memoryOrders) Delete(ctx context.Context, id string) error {
	if err := r.p.check("order.delete"); err != nil {
		return err
	}
	for _, item := range r.p.state.items {
		if item.orderID == id {
			return entity.ErrOrderHasItems
		}
	}
	delete(r.p.state.orders, id)
	return nil
}

type memoryItems struct{ p *memoryProvider }

func restoreItem(row itemRow) *entity.OrderItem {
	return entity.RestoreOrderItem(row.id, row.productID, row.orderID, row.unitPrice, row.quantity, row.version)
}

func toItemRow(item *entity.OrderItem) itemRow {
	return itemRow{
		id:        item.ID(),
		productID: item.ProductID(),
		orderID:   item.OrderID(),
		unitPrice: item.UnitPrice(),
		quantity:  item.Quantity(),
		version:   item.Version(),
	}
}

func (r *memoryItems) FindByID(ctx context.Context, id string) (*entity.OrderItem, error) {
	if err := r.p.check("item.find"); err != nil {
		return nil, err
	}
	row, ok := r.p.state.items[id]
	if !ok {
		return nil, entity.NewNotFoundError(entity.OrderItemEntity, id)
	}
	return restoreItem(row), nil
}

func (r *memoryItems) FindByProductAndOrderID(ctx context.Context, productID, orderID string) (*entity.OrderItem, error) {
	if err := r.p.check("item.findByProductAndOrder"); err != nil {
		return nil, err
	}
	for _, row := range r.p.state.items {
		if row.productID == productID && row.orderID == orderID {
			return restoreItem(row), nil
		}
	}
	return nil, entity.NewNotFoundError(entity.OrderItemEntity, productID+"/"+orderID)
}

func (r *memoryItems) ListByOrderID(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	if err := r.p.check("item.list"); err != nil {
		return nil, err
	}
	var out []*entity.OrderItem
	for _, row := range r.p.state.items {
		if row.orderID == orderID {
			out = append(out, restoreItem(row))
		}
	}
	return out, nil
}

func (r *memoryItems) Save(ctx context.Context, item *entity.OrderItem) error {
	if err := r.p.check("item.save"); err != nil {
		return err
	}
	item.AssignID(r.p.store.nextID("item"))
	r.p.state.items[item.ID()] = toItemRow(item)
	return nil
}

func (r *memoryItems) Update(ctx context.Context, item *entity.OrderItem) error {
	if err := r.p.check("item.update"); err != nil {
		return err
	}
	if _, ok := r.p.state.items[item.ID()]; !ok {
		return entity.NewNotFoundError(entity.OrderItemEntity, item.ID())
	}
	r.p.state.items[item.ID()] = toItemRow(item)
	return nil
}

func (r *memoryItems) Delete(ctx context.Context, id string) error {
	if err := r.p.check("item.delete"); err != nil {
		return err
	}
	delete(r.p.state.items, id)
	return nil
}
