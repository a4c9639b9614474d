// Package state holds one storefront context's canonical in-memory state and every
// mutation on it. Server-owned collections change only by applying a gateway response or
// an inbound sync snapshot; cart and session values are owned locally and persisted through
// the local store on every change.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/internal/localstore"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/internal/syncbus"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/metrics"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var errAlreadyAttached = errors.New("controller already attached to a sync topic")

// Params wires a Controller. Gateway and Store are required; the rest default.
type Params struct {
	Gateway   *gateway.Gateway
	Store     *localstore.Store
	Logger    *logger.Logger
	Metrics   *metrics.SyncMetrics
	Clock     func() time.Time
	IDs       orders.IDGenerator
	NewID     func() string
	ContextID string
}

type Controller struct {
	gateway   *gateway.Gateway
	store     *localstore.Store
	logg      *logger.Logger
	metrics   *metrics.SyncMetrics
	now       func() time.Time
	orderIDs  orders.IDGenerator
	newID     func() string
	contextID string

	mu          sync.RWMutex
	products    []types.Product
	orders      []types.Order
	users       []types.UserAccount
	cart        []types.CartItem
	role        enums.UserRole
	loggedIn    bool
	currentUser types.Identity
	syncing     bool

	subMu  sync.Mutex
	sub    syncbus.Subscription
	closed bool
}

// NewController seeds the locally owned values from the store. The server collections
// start empty and isServerSyncing starts true until Load settles.
func NewController(ctx context.Context, p Params) (*Controller, error) {
	if p.Gateway == nil || p.Gateway.Products == nil || p.Gateway.Orders == nil || p.Gateway.Users == nil {
		return nil, fmt.Errorf("gateway with all three collections required")
	}
	if p.Store == nil {
		return nil, fmt.Errorf("local store required")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Clock == nil {
		p.Clock = time.Now
	}
	if p.IDs == nil {
		p.IDs = orders.NewRandomIDGenerator(nil)
	}
	if p.NewID == nil {
		p.NewID = uuid.NewString
	}
	if p.ContextID == "" {
		p.ContextID = uuid.NewString()
	}

	c := &Controller{
		gateway:   p.Gateway,
		store:     p.Store,
		logg:      p.Logger,
		metrics:   p.Metrics,
		now:       p.Clock,
		orderIDs:  p.IDs,
		newID:     p.NewID,
		contextID: p.ContextID,

		products:    []types.Product{},
		orders:      []types.Order{},
		users:       []types.UserAccount{},
		cart:        p.Store.Cart(ctx),
		role:        p.Store.Role(ctx),
		loggedIn:    p.Store.LoggedIn(ctx),
		currentUser: p.Store.CurrentUser(ctx),
		syncing:     true,
	}
	c.metrics.SetSyncing(true)
	return c, nil
}

// ContextID names this context on the sync bus.
func (c *Controller) ContextID() string {
	return c.contextID
}

// Load fetches the three collections concurrently. They are applied together only when
// all three succeed; on failure the collections stay as they were and the error is logged
// and returned for information. isServerSyncing is false once Load returns.
func (c *Controller) Load(ctx context.Context) error {
	c.setSyncing(true)
	defer c.setSyncing(false)

	var (
		products []types.Product
		orderSet []types.Order
		users    []types.UserAccount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.gateway.Products.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orderSet, err = c.gateway.Orders.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = c.gateway.Users.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		c.logg.Error(c.logCtx(ctx), "initial server fetch failed", err)
		return err
	}

	c.mu.Lock()
	c.products = cloneOrEmpty(products, types.Product.Clone)
	c.orders = cloneOrEmpty(orderSet, types.Order.Clone)
	c.users = cloneOrEmpty(users, types.UserAccount.Clone)
	c.mu.Unlock()

	logCtx := c.logg.WithFields(c.logCtx(ctx), map[string]any{
		"products": len(products),
		"orders":   len(orderSet),
		"users":    len(users),
	})
	c.logg.Info(logCtx, "initial server fetch complete")
	return nil
}

func (c *Controller) setSyncing(active bool) {
	c.mu.Lock()
	c.syncing = active
	c.mu.Unlock()
	c.metrics.SetSyncing(active)
}

// Attach subscribes the controller to topic for the rest of its lifetime. A context
// attaches once; Close releases the subscription.
func (c *Controller) Attach(ctx context.Context, bus syncbus.Subscriber, topic string) error {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if c.closed {
		return fmt.Errorf("controller closed")
	}
	if c.sub != nil {
		return errAlreadyAttached
	}
	sub, err := bus.Subscribe(ctx, topic, func(ctx context.Context, msg syncbus.Message) {
		_ = c.ApplySync(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	c.sub = sub
	c.logg.Info(c.logg.WithField(c.logCtx(ctx), "topic", topic), "attached to sync bus")
	return nil
}

// Close releases the sync subscription. It is safe to call more than once.
func (c *Controller) Close() error {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.closed = true
	var err error
	if c.sub != nil {
		err = multierr.Append(err, c.sub.Close())
		c.sub = nil
	}
	return err
}

// ApplySync replaces one collection wholesale with the snapshot carried by msg. Applying
// the same snapshot twice leaves state as applying it once.
func (c *Controller) ApplySync(ctx context.Context, msg syncbus.Message) error {
	snap, err := syncbus.Decode(msg)
	if err != nil {
		c.metrics.IncDropped("decode")
		c.logg.Error(c.logg.WithField(c.logCtx(ctx), "origin", msg.Origin), "dropping sync message", err)
		return err
	}

	c.mu.Lock()
	switch snap.Type {
	case enums.SyncProducts:
		c.products = cloneOrEmpty(snap.Products, types.Product.Clone)
	case enums.SyncOrders:
		c.orders = cloneOrEmpty(snap.Orders, types.Order.Clone)
	case enums.SyncUsers:
		c.users = cloneOrEmpty(snap.Users, types.UserAccount.Clone)
	}
	c.mu.Unlock()

	c.metrics.IncApplied(snap.Type.String())
	return nil
}

func (c *Controller) logCtx(ctx context.Context) context.Context {
	return c.logg.WithContextID(ctx, c.contextID)
}
