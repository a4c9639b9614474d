package state

import (
	"strings"

	"github.com/angelmondragon/gs-storefront/internal/cart"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Snapshot is a consistent copy of the whole context state at one instant.
type Snapshot struct {
	Products        []types.Product     `json:"products"`
	Orders          []types.Order       `json:"orders"`
	Users           []types.UserAccount `json:"users"`
	Cart            []types.CartItem    `json:"cart"`
	CartTotal       decimal.Decimal     `json:"cartTotal"`
	CartCount       int                 `json:"cartCount"`
	Role            enums.UserRole      `json:"userRole"`
	IsLoggedIn      bool                `json:"isLoggedIn"`
	CurrentUser     types.Identity      `json:"currentUser"`
	IsServerSyncing bool                `json:"isServerSyncing"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Products:        cloneOrEmpty(c.products, types.Product.Clone),
		Orders:          cloneOrEmpty(c.orders, types.Order.Clone),
		Users:           cloneOrEmpty(c.users, types.UserAccount.Clone),
		Cart:            types.CloneCart(c.cart),
		CartTotal:       cart.Total(c.cart),
		CartCount:       cart.Count(c.cart),
		Role:            c.role,
		IsLoggedIn:      c.loggedIn,
		CurrentUser:     c.currentUser,
		IsServerSyncing: c.syncing,
	}
}

func (c *Controller) Products() []types.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneOrEmpty(c.products, types.Product.Clone)
}

func (c *Controller) Orders() []types.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneOrEmpty(c.orders, types.Order.Clone)
}

func (c *Controller) Users() []types.UserAccount {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneOrEmpty(c.users, types.UserAccount.Clone)
}

// IsServerSyncing is true only while a Load is in flight.
func (c *Controller) IsServerSyncing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.syncing
}

func (c *Controller) Product(id string) (types.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := find(c.products, id, productID)
	return p.Clone(), ok
}

func (c *Controller) Order(id string) (types.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := find(c.orders, id, orderID)
	return o.Clone(), ok
}

// OrdersFor lists the orders placed with email, compared case-insensitively.
func (c *Controller) OrdersFor(email string) []types.Order {
	email = strings.TrimSpace(email)
	c.mu.RLock()
	defer c.mu.RUnlock()
	matched := []types.Order{}
	if email == "" {
		return matched
	}
	for _, o := range c.orders {
		if strings.EqualFold(o.Email, email) {
			matched = append(matched, o.Clone())
		}
	}
	return matched
}
