package controllers

import (
	"context"

	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/internal/state"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Storefront is the operation set one storefront context exposes to its local API.
type Storefront interface {
	Snapshot() state.Snapshot
	IsServerSyncing() bool

	Products() []types.Product
	Product(id string) (types.Product, bool)
	Orders() []types.Order
	Order(id string) (types.Order, bool)
	OrdersFor(email string) []types.Order
	Users() []types.UserAccount

	Cart() []types.CartItem
	CartTotal() decimal.Decimal
	CartCount() int
	AddToCart(ctx context.Context, product types.Product, qty int)
	RemoveFromCart(ctx context.Context, productID string)
	UpdateCartQuantity(ctx context.Context, productID string, qty int)
	ClearCart(ctx context.Context)
	PlaceOrder(ctx context.Context, info orders.CustomerInfo) (string, error)

	AddReview(ctx context.Context, productID string, review types.Review) (types.Product, error)
	AddProduct(ctx context.Context, product types.Product) (types.Product, error)
	UpdateProduct(ctx context.Context, product types.Product) (types.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateOrder(ctx context.Context, id string, update orders.Update) (types.Order, error)
	AddUser(ctx context.Context, user types.UserAccount) (types.UserAccount, error)
	UpdateUser(ctx context.Context, user types.UserAccount) (types.UserAccount, error)
	DeleteUser(ctx context.Context, id string) error

	Role() enums.UserRole
	IsLoggedIn() bool
	CurrentUser() types.Identity
	SetUserRole(ctx context.Context, role enums.UserRole) error
	SetIsLoggedIn(ctx context.Context, loggedIn bool)
	SetCurrentUser(ctx context.Context, identity types.Identity)
	HandleLogout(ctx context.Context)
}
