package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/gs-storefront/api/responses"
	"github.com/angelmondragon/gs-storefront/api/validators"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

type cartView struct {
	Items []types.CartItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
	Count int              `json:"count"`
}

func currentCart(svc Storefront) cartView {
	return cartView{Items: svc.Cart(), Total: svc.CartTotal(), Count: svc.CartCount()}
}

func GetCart(svc Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, currentCart(svc))
	}
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// AddCartItem snapshots the catalog product into the cart.
func AddCartItem(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := svc.Product(payload.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"productId": payload.ProductID}))
			return
		}

		qty := payload.Quantity
		if qty == 0 {
			qty = 1
		}
		svc.AddToCart(r.Context(), product, qty)
		responses.WriteSuccess(w, currentCart(svc))
	}
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets a line's quantity. Zero or less removes the line.
func UpdateCartItem(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		svc.UpdateCartQuantity(r.Context(), id, payload.Quantity)
		responses.WriteSuccess(w, currentCart(svc))
	}
}

func RemoveCartItem(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		svc.RemoveFromCart(r.Context(), id)
		responses.WriteSuccess(w, currentCart(svc))
	}
}

func ClearCart(svc Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearCart(r.Context())
		responses.WriteSuccess(w, currentCart(svc))
	}
}

// Checkout places the current cart as an order.
func Checkout(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var info orders.CustomerInfo
		if err := validators.DecodeJSON(r, &info); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.PlaceOrder(r.Context(), info)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithOrderID(r.Context(), id), "checkout.order_placed")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"orderId": id})
	}
}
