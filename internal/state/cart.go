package state

import (
	"context"

	"github.com/angelmondragon/gs-storefront/internal/cart"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// AddToCart merges qty units of product into the cart. A qty below 1 adds one unit.
func (c *Controller) AddToCart(ctx context.Context, product types.Product, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCartLocked(ctx, cart.Add(c.cart, product, qty))
}

// RemoveFromCart drops the line for productID. Absent ids are a no-op.
func (c *Controller) RemoveFromCart(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCartLocked(ctx, cart.Remove(c.cart, productID))
}

// UpdateCartQuantity sets the line's quantity exactly; qty <= 0 removes the line.
func (c *Controller) UpdateCartQuantity(ctx context.Context, productID string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCartLocked(ctx, cart.SetQuantity(c.cart, productID, qty))
}

func (c *Controller) ClearCart(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCartLocked(ctx, []types.CartItem{})
}

func (c *Controller) setCartLocked(ctx context.Context, items []types.CartItem) {
	c.cart = items
	c.store.SetCart(ctx, items)
}

// PlaceOrder turns the current cart into a pending order, saves it through the gateway,
// prepends the stored order and clears the cart. It returns the stored order's id.
// Nothing changes locally when the gateway call fails.
func (c *Controller) PlaceOrder(ctx context.Context, info orders.CustomerInfo) (string, error) {
	if err := info.Validate(); err != nil {
		return "", err
	}

	c.mu.RLock()
	items := types.CloneCart(c.cart)
	c.mu.RUnlock()
	if len(items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := orders.Build(items, info, c.now(), c.orderIDs)
	logCtx := c.logg.WithOrderID(c.logCtx(ctx), order.ID)

	saved, err := c.gateway.Orders.Save(ctx, order)
	if err != nil {
		c.logg.Warn(logCtx, "order placement failed")
		return "", err
	}

	c.mu.Lock()
	c.orders = prepend(c.orders, saved.Clone(), orderID)
	c.setCartLocked(ctx, []types.CartItem{})
	c.mu.Unlock()

	c.logg.Info(logCtx, "order placed")
	return saved.ID, nil
}

// Cart returns a copy of the current cart lines.
func (c *Controller) Cart() []types.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return types.CloneCart(c.cart)
}

// CartTotal is recomputed from the live cart on every call.
func (c *Controller) CartTotal() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cart.Total(c.cart)
}

// CartCount is the number of units across all lines.
func (c *Controller) CartCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cart.Count(c.cart)
}
