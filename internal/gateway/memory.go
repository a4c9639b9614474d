package gateway

import (
	"context"
	"strings"
	"sync"

	"github.com/angelmondragon/gs-storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// Hook runs before every Memory call. A non-nil error fails the call with that error.
type Hook func(ctx context.Context, collection, op string) error

// Memory is an in-process gateway with the same semantics as the REST one. It backs tests
// and single-binary demos, and can inject failures per collection and operation.
type Memory struct {
	mu       sync.Mutex
	failures map[string]error
	calls    map[string]int
	hook     Hook

	products *memoryCollection[types.Product]
	orders   *memoryOrders
	users    *memoryCollection[types.UserAccount]
}

func NewMemory() *Memory {
	m := &Memory{
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
	m.products = newMemoryCollection(m, CollectionProducts, productID, types.Product.Clone)
	m.orders = &memoryOrders{memoryCollection: newMemoryCollection(m, CollectionOrders, orderID, types.Order.Clone)}
	m.users = newMemoryCollection(m, CollectionUsers, userID, types.UserAccount.Clone)
	return m
}

// NewMemoryGateway is shorthand for NewMemory().Gateway().
func NewMemoryGateway() *Gateway {
	return NewMemory().Gateway()
}

func (m *Memory) Gateway() *Gateway {
	return &Gateway{Products: m.products, Orders: m.orders, Users: m.users}
}

// Seed replaces the stored collections. Nil arguments leave a collection untouched.
func (m *Memory) Seed(products []types.Product, orderList []types.Order, users []types.UserAccount) {
	if products != nil {
		m.products.replace(products)
	}
	if orderList != nil {
		m.orders.replace(orderList)
	}
	if users != nil {
		m.users.replace(users)
	}
}

// Fail makes every following call of op on collection return err. A nil err clears it.
func (m *Memory) Fail(collection, op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := callKey(collection, op)
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

// FailTransport is Fail with a TRANSPORT_ERROR.
func (m *Memory) FailTransport(collection, op string) {
	m.Fail(collection, op, pkgerrors.New(pkgerrors.CodeTransport, collection+" "+op+" unavailable"))
}

func (m *Memory) SetHook(hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = hook
}

// Calls reports how many times op was invoked on collection, failed calls included.
func (m *Memory) Calls(collection, op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[callKey(collection, op)]
}

func (m *Memory) enter(ctx context.Context, collection, op string) error {
	m.mu.Lock()
	m.calls[callKey(collection, op)]++
	failure := m.failures[callKey(collection, op)]
	hook := m.hook
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "gateway call cancelled")
	}
	if hook != nil {
		if err := hook(ctx, collection, op); err != nil {
			return err
		}
	}
	return failure
}

func callKey(collection, op string) string {
	return collection + "/" + op
}

type memoryCollection[T any] struct {
	owner   *Memory
	name    string
	idOf    func(T) string
	clone   func(T) T
	mu      sync.RWMutex
	records []T
}

var (
	_ Collection[types.Product]     = (*memoryCollection[types.Product])(nil)
	_ Collection[types.UserAccount] = (*memoryCollection[types.UserAccount])(nil)
	_ OrderCollection               = (*memoryOrders)(nil)
)

func newMemoryCollection[T any](owner *Memory, name string, idOf func(T) string, clone func(T) T) *memoryCollection[T] {
	return &memoryCollection[T]{owner: owner, name: name, idOf: idOf, clone: clone, records: []T{}}
}

func (c *memoryCollection[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := c.owner.enter(ctx, c.name, OpGetAll); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyRecords(), nil
}

func (c *memoryCollection[T]) Save(ctx context.Context, record T) (T, error) {
	var zero T
	if err := c.owner.enter(ctx, c.name, OpSave); err != nil {
		return zero, err
	}
	id := strings.TrimSpace(c.idOf(record))
	if id == "" {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, c.name+" record id is required")
	}
	stored := c.clone(record)

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		c.records[idx] = stored
	} else {
		c.records = append(c.records, stored)
	}
	return c.clone(stored), nil
}

func (c *memoryCollection[T]) Delete(ctx context.Context, id string) error {
	if err := c.owner.enter(ctx, c.name, OpDelete); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		c.records = append(c.records[:idx:idx], c.records[idx+1:]...)
	}
	return nil
}

func (c *memoryCollection[T]) replace(records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make([]T, len(records))
	for i, record := range records {
		c.records[i] = c.clone(record)
	}
}

func (c *memoryCollection[T]) copyRecords() []T {
	dup := make([]T, len(c.records))
	for i, record := range c.records {
		dup[i] = c.clone(record)
	}
	return dup
}

func (c *memoryCollection[T]) indexOf(id string) int {
	for i, record := range c.records {
		if c.idOf(record) == id {
			return i
		}
	}
	return -1
}

type memoryOrders struct {
	*memoryCollection[types.Order]
}

func (m *memoryOrders) Update(ctx context.Context, id string, update orders.Update) (types.Order, error) {
	if err := m.owner.enter(ctx, m.name, OpUpdate); err != nil {
		return types.Order{}, err
	}
	if err := update.Validate(); err != nil {
		return types.Order{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(id)
	if idx < 0 {
		return types.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
			WithDetails(map[string]any{"id": id})
	}
	m.records[idx] = update.ApplyTo(m.records[idx])
	return m.records[idx].Clone(), nil
}
