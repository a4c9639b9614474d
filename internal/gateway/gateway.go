// Package gateway is the storefront's view of the remote data service: three named
// collections with fetch-all, create-or-replace and delete, plus partial order updates.
// Whatever a write returns is the authoritative record and callers apply it as-is.
package gateway

import (
	"context"

	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

const (
	CollectionProducts = "products"
	CollectionOrders   = "orders"
	CollectionUsers    = "users"
)

const (
	OpGetAll = "get_all"
	OpSave   = "save"
	OpDelete = "delete"
	OpUpdate = "update"
)

// Collection is one remote collection of records keyed by id.
type Collection[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	// Save creates the record when its id is new and replaces it otherwise.
	Save(ctx context.Context, record T) (T, error)
	Delete(ctx context.Context, id string) error
}

// OrderCollection adds partial updates, used for status and shipping changes.
type OrderCollection interface {
	Collection[types.Order]
	Update(ctx context.Context, id string, update orders.Update) (types.Order, error)
}

type Gateway struct {
	Products Collection[types.Product]
	Orders   OrderCollection
	Users    Collection[types.UserAccount]
}

func productID(p types.Product) string  { return p.ID }
func orderID(o types.Order) string      { return o.ID }
func userID(u types.UserAccount) string { return u.ID }
