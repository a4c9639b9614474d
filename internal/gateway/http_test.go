package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/metrics"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaseURLNormalizes(t *testing.T) {
	u, err := parseBaseURL("example.com:8090/ignored?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "example.com:8090", u.Host)
	assert.Empty(t, u.Path)
	assert.Empty(t, u.RawQuery)

	_, err = parseBaseURL(" ")
	require.Error(t, err)
}

func TestHTTPGatewayRoutes(t *testing.T) {
	type seen struct {
		method string
		path   string
		body   string
	}
	var got []seen

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got = append(got, seen{method: r.Method, path: r.URL.Path, body: string(raw)})
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/products":
			_ = json.NewEncoder(w).Encode([]types.Product{{ID: "p1", Name: "Lamp", Price: decimal.NewFromInt(10)}})
		case r.Method == http.MethodPut && r.URL.Path == "/api/products/p2":
			var p types.Product
			_ = json.Unmarshal(raw, &p)
			p.Name = p.Name + " (stored)"
			_ = json.NewEncoder(w).Encode(p)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/users/u1":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPatch && r.URL.Path == "/api/orders/ORD-1234":
			_ = json.NewEncoder(w).Encode(types.Order{ID: "ORD-1234", Status: enums.OrderStatusShipped, Carrier: "UPS"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	gw, err := NewHTTPGateway(server.URL, HTTPOptions{})
	require.NoError(t, err)
	ctx := context.Background()

	products, err := gw.Products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(10)))

	saved, err := gw.Products.Save(ctx, types.Product{ID: "p2", Name: "Desk"})
	require.NoError(t, err)
	assert.Equal(t, "Desk (stored)", saved.Name)

	require.NoError(t, gw.Users.Delete(ctx, "u1"))

	order, err := gw.Orders.Update(ctx, "ORD-1234", orders.TrackingUpdate("UPS", "1Z"))
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, order.Status)

	require.Len(t, got, 4)
	assert.Equal(t, http.MethodPut, got[1].method)
	assert.Contains(t, got[1].body, `"price":0`)
	assert.Equal(t, http.MethodPatch, got[3].method)
	assert.JSONEq(t, `{"status":"Shipped","trackingNumber":"1Z","carrier":"UPS"}`, got[3].body)
}

func TestHTTPGatewayEscapesRecordIDsOnce(t *testing.T) {
	type seen struct {
		method  string
		path    string
		rawPath string
	}
	var got []seen

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, seen{method: r.Method, path: r.URL.Path, rawPath: r.URL.EscapedPath()})
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, r.Body)
	}))
	defer server.Close()

	gw, err := NewHTTPGateway(server.URL, HTTPOptions{})
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := gw.Products.Save(ctx, types.Product{ID: "a b/c", Name: "Lamp"})
	require.NoError(t, err)
	assert.Equal(t, "a b/c", saved.ID)
	require.NoError(t, gw.Products.Delete(ctx, "a b/c"))

	require.Len(t, got, 2)
	for _, call := range got {
		assert.Equal(t, "/api/products/a b/c", call.path, call.method)
		assert.Equal(t, "/api/products/a%20b%2Fc", call.rawPath, call.method)
	}
}

func TestHTTPGatewayMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusBadRequest, pkgerrors.CodeValidation},
		{http.StatusUnprocessableEntity, pkgerrors.CodeValidation},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusInternalServerError, pkgerrors.CodeTransport},
		{http.StatusServiceUnavailable, pkgerrors.CodeTransport},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(types.ErrorEnvelope{Error: types.APIError{Code: "X", Message: "upstream says no"}})
			}))
			defer server.Close()

			gw, err := NewHTTPGateway(server.URL, HTTPOptions{})
			require.NoError(t, err)

			_, err = gw.Orders.GetAll(context.Background())
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, tc.code))
			assert.Equal(t, "upstream says no", pkgerrors.As(err).Message())
		})
	}
}

func TestHTTPGatewayUnreachableIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	gw, err := NewHTTPGateway(url, HTTPOptions{})
	require.NoError(t, err)

	_, err = gw.Products.GetAll(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeTransport))
}

func TestHTTPGatewayRejectsMissingID(t *testing.T) {
	gw, err := NewHTTPGateway("http://127.0.0.1:1", HTTPOptions{})
	require.NoError(t, err)

	_, err = gw.Users.Save(context.Background(), types.UserAccount{Name: "No ID"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	err = gw.Products.Delete(context.Background(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestHTTPGatewayObservesCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	gw, err := NewHTTPGateway(server.URL, HTTPOptions{Metrics: metrics.NewGatewayMetrics(reg)})
	require.NoError(t, err)

	users, err := gw.Users.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)

	count, err := testutil.GatherAndCount(reg, "gs_gateway_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
