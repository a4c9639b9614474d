package records

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/pkg/config"
	"github.com/angelmondragon/gs-storefront/pkg/db"
	"github.com/angelmondragon/gs-storefront/pkg/db/models"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *gateway.Gateway {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DefaultDBDriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.AutoMigrate(context.Background(), models.All()...))
	return NewGateway(client)
}

func sampleProduct(id string) types.Product {
	return types.Product{
		ID:       id,
		Name:     "Lamp " + id,
		Price:    decimal.RequireFromString("24.50"),
		Category: "Home",
		Stock:    3,
		Reviews: []types.Review{
			{ID: "r1", UserName: "Ana", Rating: 5, Comment: "bright", Date: "2026-03-01"},
		},
	}
}

func sampleOrder(id string) types.Order {
	item := types.CartItem{Product: sampleProduct("p1"), Quantity: 2}
	return types.Order{
		ID:           id,
		CustomerName: "Ana Ruiz",
		Email:        "ana@example.com",
		Items:        []types.CartItem{item},
		Total:        item.LineTotal(),
		Status:       enums.OrderStatusPending,
		Date:         "2026-03-14",
	}
}

func TestProductsSaveListDelete(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)

	empty, err := gw.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	saved, err := gw.Products.Save(ctx, sampleProduct("p1"))
	require.NoError(t, err)
	assert.Equal(t, "p1", saved.ID)
	assert.True(t, saved.Price.Equal(decimal.RequireFromString("24.50")))
	require.Len(t, saved.Reviews, 1)
	assert.Equal(t, "bright", saved.Reviews[0].Comment)

	_, err = gw.Products.Save(ctx, sampleProduct("p2"))
	require.NoError(t, err)

	all, err := gw.Products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)
	assert.Equal(t, "p2", all[1].ID)

	require.NoError(t, gw.Products.Delete(ctx, "p1"))
	require.NoError(t, gw.Products.Delete(ctx, "p1"))

	all, err = gw.Products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p2", all[0].ID)
}

func TestProductSaveOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)

	_, err := gw.Products.Save(ctx, sampleProduct("p1"))
	require.NoError(t, err)

	edited := sampleProduct("p1")
	edited.Name = "Desk lamp"
	edited.Stock = 0
	edited.Reviews = append(edited.Reviews, types.Review{ID: "r2", UserName: "Bo", Rating: 3, Date: "2026-03-02"})

	saved, err := gw.Products.Save(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", saved.Name)
	assert.Equal(t, 0, saved.Stock)
	assert.Len(t, saved.Reviews, 2)

	all, err := gw.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveRequiresID(t *testing.T) {
	gw := newTestGateway(t)
	_, err := gw.Products.Save(context.Background(), sampleProduct(" "))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestOrderUpdatePatchesFields(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)

	_, err := gw.Orders.Save(ctx, sampleOrder("ORD-1001"))
	require.NoError(t, err)

	updated, err := gw.Orders.Update(ctx, "ORD-1001", orders.TrackingUpdate("DHL", "TRK-9"))
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.Equal(t, "DHL", updated.Carrier)
	assert.Equal(t, "TRK-9", updated.TrackingNumber)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 2, updated.Items[0].Quantity)
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("49")))

	all, err := gw.Orders.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, enums.OrderStatusShipped, all[0].Status)
}

func TestOrderUpdateMissingIsNotFound(t *testing.T) {
	gw := newTestGateway(t)
	_, err := gw.Orders.Update(context.Background(), "ORD-404", orders.StatusUpdate(enums.OrderStatusCancelled))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestOrderUpdateRejectsEmptyPatch(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)
	_, err := gw.Orders.Save(ctx, sampleOrder("ORD-1001"))
	require.NoError(t, err)

	_, err = gw.Orders.Update(ctx, "ORD-1001", orders.Update{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUsersRoundTripCreatedAtAndAddresses(t *testing.T) {
	ctx := context.Background()
	gw := newTestGateway(t)

	user := types.UserAccount{
		ID:        "u1",
		Name:      "Ana",
		Email:     "ana@example.com",
		Password:  "secret",
		Role:      enums.UserRoleAdmin,
		CreatedAt: "2026-01-02",
		Addresses: []types.Address{{ID: "a1", Label: "Home", City: "Lima", IsDefault: true}},
	}
	saved, err := gw.Users.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user, saved)

	all, err := gw.Users.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.UserAccount{user}, all)
}
