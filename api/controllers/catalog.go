package controllers

import (
	"net/http"

	"github.com/angelmondragon/gs-storefront/api/responses"
	"github.com/angelmondragon/gs-storefront/api/validators"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

type productView struct {
	types.Product
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

func newProductView(p types.Product) productView {
	return productView{Product: p, AverageRating: p.AverageRating(), ReviewCount: len(p.Reviews)}
}

// StateSnapshot returns the full context state in one read.
func StateSnapshot(svc Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Snapshot())
	}
}

func ListProducts(svc Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteList(w, svc.Products())
	}
}

func GetProduct(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, ok := svc.Product(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, newProductView(product))
	}
}

type reviewRequest struct {
	UserName string `json:"userName" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// AddReview appends a customer review to a product.
func AddReview(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload reviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddReview(r.Context(), id, types.Review{
			UserName: validators.SanitizeString(payload.UserName, 120),
			Rating:   payload.Rating,
			Comment:  validators.SanitizeString(payload.Comment, 2000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newProductView(product))
	}
}

// ListOrders returns every order, or only the orders placed with ?email=.
func ListOrders(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := validators.ParseQueryEmail(r, "email")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if email != "" {
			responses.WriteList(w, svc.OrdersFor(email))
			return
		}
		responses.WriteList(w, svc.Orders())
	}
}

func GetOrder(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, ok := svc.Order(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}
