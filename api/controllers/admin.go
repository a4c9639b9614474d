package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/gs-storefront/api/responses"
	"github.com/angelmondragon/gs-storefront/api/validators"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// bindPathID fills an empty body id from the path and rejects a conflicting one.
func bindPathID(r *http.Request, param string, bodyID *string) error {
	pathID, err := validators.URLParamID(r, param)
	if err != nil {
		return err
	}
	body := strings.TrimSpace(*bodyID)
	if body != "" && body != pathID {
		return pkgerrors.New(pkgerrors.CodeValidation, "body id does not match path").
			WithDetails(map[string]any{"path": pathID, "body": body})
	}
	*bodyID = pathID
	return nil
}

func AdminCreateProduct(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product types.Product
		if err := validators.DecodeJSON(r, &product); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved, err := svc.AddProduct(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, saved)
	}
}

func AdminUpdateProduct(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var product types.Product
		if err := validators.DecodeJSON(r, &product); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := bindPathID(r, "productId", &product.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved, err := svc.UpdateProduct(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

func AdminDeleteProduct(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AdminUpdateOrder applies a status or tracking change.
func AdminUpdateOrder(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var update orders.Update
		if err := validators.DecodeJSON(r, &update); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved, err := svc.UpdateOrder(r.Context(), id, update)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

func AdminListUsers(svc Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteList(w, svc.Users())
	}
}

func AdminCreateUser(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user types.UserAccount
		if err := validators.DecodeJSON(r, &user); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved, err := svc.AddUser(r.Context(), user)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, saved)
	}
}

func AdminUpdateUser(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user types.UserAccount
		if err := validators.DecodeJSON(r, &user); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := bindPathID(r, "userId", &user.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved, err := svc.UpdateUser(r.Context(), user)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, saved)
	}
}

func AdminDeleteUser(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteUser(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
