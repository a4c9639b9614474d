package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/gs-storefront/api/controllers"
	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/internal/localstore"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/internal/records"
	"github.com/angelmondragon/gs-storefront/internal/state"
	"github.com/angelmondragon/gs-storefront/internal/storefront"
	"github.com/angelmondragon/gs-storefront/internal/syncbus"
	"github.com/angelmondragon/gs-storefront/pkg/config"
	"github.com/angelmondragon/gs-storefront/pkg/db"
	"github.com/angelmondragon/gs-storefront/pkg/db/models"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/metrics"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: config.AppEnvDev},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func lamp() types.Product {
	return types.Product{ID: "p1", Name: "Lamp", Price: decimal.RequireFromString("12.50"), Category: "Home", Stock: 4}
}

func newStorefront(t *testing.T, mem *gateway.Memory) (http.Handler, *storefront.Service) {
	t.Helper()
	ctx := context.Background()
	ctrl, err := state.NewController(ctx, state.Params{
		Gateway:   mem.Gateway(),
		Store:     localstore.New(localstore.NewMemoryBackend(), nil),
		ContextID: "tab-a",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })
	require.NoError(t, ctrl.Load(ctx))

	announcer := syncbus.NewAnnouncer(syncbus.NewLocalHub().Bus("tab-a"), "gs_cloud_sync_bus", nil, nil)
	svc, err := storefront.NewService(ctrl, announcer, nil)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics.NewSyncMetrics(reg)
	return NewStorefrontRouter(testConfig(), logger.Nop(), svc, "tab-a", reg, nil), svc
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error.Code
}

func TestStorefrontHealthAndMetrics(t *testing.T) {
	h, _ := newStorefront(t, gateway.NewMemory())

	w := do(t, h, http.MethodGet, "/health/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tab-a", w.Header().Get("X-GS-Context"))

	w = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gs_")
}

func TestReadyReportsFailingDependency(t *testing.T) {
	h := NewGatewayRouter(testConfig(), logger.Nop(), gateway.NewMemoryGateway(), nil,
		map[string]controllers.Pinger{"db": stubPinger{err: fmt.Errorf("down")}})

	w := do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, string(pkgerrors.CodeDependency), errorCode(t, w))
}

func TestStorefrontCartCheckoutFlow(t *testing.T) {
	mem := gateway.NewMemory()
	mem.Seed([]types.Product{lamp()}, nil, nil)
	h, svc := newStorefront(t, mem)

	w := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cartBody struct {
		Items []types.CartItem `json:"items"`
		Total decimal.Decimal  `json:"total"`
		Count int              `json:"count"`
	}
	decodeData(t, w, &cartBody)
	assert.Equal(t, 2, cartBody.Count)
	assert.True(t, cartBody.Total.Equal(decimal.RequireFromString("25")))

	w = do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":"p1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &cartBody)
	assert.Equal(t, 3, cartBody.Count)

	w = do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":"p1","quantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/cart/items", `{"productId":"missing","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/cart/items/p1", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &cartBody)
	assert.Equal(t, 3, cartBody.Count)

	w = do(t, h, http.MethodPost, "/api/v1/checkout", `{"name":"Ana","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 3, svc.CartCount())

	w = do(t, h, http.MethodPost, "/api/v1/checkout", `{"name":"Ana","email":"ana@example.com","address":"1 Main","city":"Lima","zip":"15001"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		OrderID string `json:"orderId"`
	}
	decodeData(t, w, &placed)
	assert.True(t, orders.ValidID(placed.OrderID))
	assert.Zero(t, svc.CartCount())

	w = do(t, h, http.MethodGet, "/api/v1/orders/"+placed.OrderID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var order types.Order
	decodeData(t, w, &order)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("37.5")))

	w = do(t, h, http.MethodGet, "/api/v1/orders?email=ANA@example.com", "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine []types.Order
	decodeData(t, w, &mine)
	assert.Len(t, mine, 1)

	w = do(t, h, http.MethodGet, "/api/v1/orders?email=bad", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorefrontEmptyCheckoutRejected(t *testing.T) {
	h, _ := newStorefront(t, gateway.NewMemory())
	w := do(t, h, http.MethodPost, "/api/v1/checkout", `{"name":"Ana","email":"ana@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, w))
}

func TestStorefrontReviewsAndProductView(t *testing.T) {
	mem := gateway.NewMemory()
	mem.Seed([]types.Product{lamp()}, nil, nil)
	h, _ := newStorefront(t, mem)

	w := do(t, h, http.MethodPost, "/api/v1/products/p1/reviews", `{"userName":"Ana","rating":4,"comment":"nice"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/v1/products/p1/reviews", `{"userName":"Bo","rating":2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/products/p1/reviews", `{"userName":"Bo","rating":9}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/products/nope/reviews", `{"userName":"Bo","rating":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/products/p1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		Reviews       []types.Review `json:"reviews"`
		AverageRating float64        `json:"averageRating"`
		ReviewCount   int            `json:"reviewCount"`
	}
	decodeData(t, w, &view)
	assert.Equal(t, 2, view.ReviewCount)
	assert.InDelta(t, 3.0, view.AverageRating, 0.0001)
}

func TestStorefrontSessionLifecycle(t *testing.T) {
	h, _ := newStorefront(t, gateway.NewMemory())

	w := do(t, h, http.MethodPut, "/api/v1/session", `{"userRole":"ADMIN","isLoggedIn":true,"currentUser":{"name":"Ana","email":"ana@example.com"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session struct {
		Role        enums.UserRole `json:"userRole"`
		IsLoggedIn  bool           `json:"isLoggedIn"`
		CurrentUser types.Identity `json:"currentUser"`
	}
	decodeData(t, w, &session)
	assert.Equal(t, enums.UserRoleAdmin, session.Role)
	assert.True(t, session.IsLoggedIn)

	w = do(t, h, http.MethodPut, "/api/v1/session", `{"userRole":"ROOT"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/v1/session/logout", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &session)
	assert.False(t, session.IsLoggedIn)
	assert.Equal(t, enums.UserRoleCustomer, session.Role)
	assert.True(t, session.CurrentUser.IsGuest())
}

func TestStorefrontAdminWrites(t *testing.T) {
	mem := gateway.NewMemory()
	h, svc := newStorefront(t, mem)

	w := do(t, h, http.MethodPost, "/api/v1/admin/products", `{"name":"Chair","price":40,"category":"Home","stock":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created types.Product
	decodeData(t, w, &created)
	require.NotEmpty(t, created.ID)

	w = do(t, h, http.MethodPut, "/api/v1/admin/products/"+created.ID, `{"id":"other","name":"Chair","price":40,"stock":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/api/v1/admin/products/"+created.ID, `{"name":"Arm chair","price":45,"stock":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	product, ok := svc.Product(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Arm chair", product.Name)

	w = do(t, h, http.MethodDelete, "/api/v1/admin/products/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, svc.Products())

	w = do(t, h, http.MethodPost, "/api/v1/admin/users", `{"name":"Bo","email":"bo@example.com","role":"CUSTOMER"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user types.UserAccount
	decodeData(t, w, &user)
	require.NotEmpty(t, user.ID)

	w = do(t, h, http.MethodGet, "/api/v1/admin/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = do(t, h, http.MethodDelete, "/api/v1/admin/users/"+user.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodPatch, "/api/v1/admin/orders/ORD-404", `{"status":"SHIPPED"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorefrontSurfacesGatewayFailure(t *testing.T) {
	mem := gateway.NewMemory()
	h, _ := newStorefront(t, mem)
	mem.FailTransport(gateway.CollectionProducts, gateway.OpSave)

	w := do(t, h, http.MethodPost, "/api/v1/admin/products", `{"name":"Chair","price":40,"stock":2}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, string(pkgerrors.CodeTransport), errorCode(t, w))
}

func newRecordsGateway(t *testing.T) *gateway.Gateway {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DefaultDBDriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.AutoMigrate(context.Background(), models.All()...))
	return records.NewGateway(client)
}

func TestGatewayRouterPutRequiresMatchingID(t *testing.T) {
	h := NewGatewayRouter(testConfig(), logger.Nop(), newRecordsGateway(t), nil, nil)

	w := do(t, h, http.MethodPut, "/api/products/p1", `{"id":"p2","name":"Lamp","price":1,"stock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), errorCode(t, w))

	w = do(t, h, http.MethodPut, "/api/products/p1", `{"name":"Lamp","price":1,"stock":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/api/products/p1", `{"id":"p1","name":"Lamp","price":1,"stock":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved types.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, "p1", saved.ID)
}

// The HTTP gateway client talking to the gateway router over the records store exercises
// the whole wire contract end to end.
func TestHTTPGatewayAgainstGatewayRouter(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(NewGatewayRouter(testConfig(), logger.Nop(), newRecordsGateway(t), nil, nil))
	t.Cleanup(srv.Close)

	client, err := gateway.NewHTTPGateway(srv.URL, gateway.HTTPOptions{})
	require.NoError(t, err)

	products, err := client.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	saved, err := client.Products.Save(ctx, lamp())
	require.NoError(t, err)
	assert.True(t, saved.Price.Equal(decimal.RequireFromString("12.50")))

	item := types.CartItem{Product: saved, Quantity: 2}
	order := types.Order{
		ID:           "ORD-1001",
		CustomerName: "Ana",
		Email:        "ana@example.com",
		Items:        []types.CartItem{item},
		Total:        item.LineTotal(),
		Status:       enums.OrderStatusPending,
		Date:         "2026-03-14",
	}
	_, err = client.Orders.Save(ctx, order)
	require.NoError(t, err)

	updated, err := client.Orders.Update(ctx, "ORD-1001", orders.TrackingUpdate("UPS", "1Z"))
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.Equal(t, "1Z", updated.TrackingNumber)

	_, err = client.Orders.Update(ctx, "ORD-404", orders.StatusUpdate(enums.OrderStatusCancelled))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = client.Users.Save(ctx, types.UserAccount{ID: "u1", Name: "Ana", Email: "nope", Role: enums.UserRoleCustomer})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, client.Products.Delete(ctx, "p1"))
	require.NoError(t, client.Products.Delete(ctx, "p1"))
	products, err = client.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestHTTPGatewayRoundTripsReservedIDs(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(NewGatewayRouter(testConfig(), logger.Nop(), newRecordsGateway(t), nil, nil))
	t.Cleanup(srv.Close)

	client, err := gateway.NewHTTPGateway(srv.URL, gateway.HTTPOptions{})
	require.NoError(t, err)

	for _, id := range []string{"a b/c", "50%off"} {
		product := lamp()
		product.ID = id
		saved, err := client.Products.Save(ctx, product)
		require.NoError(t, err, id)
		assert.Equal(t, id, saved.ID)
	}

	products, err := client.Products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.NoError(t, client.Products.Delete(ctx, "a b/c"))
	products, err = client.Products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "50%off", products[0].ID)
}
