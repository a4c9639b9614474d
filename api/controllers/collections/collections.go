// Package collections serves the remote data gateway's REST surface: bare JSON records
// and arrays under /api/{collection}.
package collections

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/gs-storefront/api/responses"
	"github.com/angelmondragon/gs-storefront/api/validators"
	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
)

const idParam = "id"

// Spec describes how one collection's records are identified and checked.
type Spec[T any] struct {
	Name     string
	IDOf     func(T) string
	Validate func(T) error
}

func List[T any](coll gateway.Collection[T], spec Spec[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCollection(ctx, spec.Name)
		}
		records, err := coll.GetAll(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if records == nil {
			records = []T{}
		}
		responses.WriteRecord(w, http.StatusOK, records)
	}
}

// Put creates or replaces the record at /{id}. The body must carry the same id.
func Put[T any](coll gateway.Collection[T], spec Spec[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCollection(ctx, spec.Name)
		}

		pathID, err := validators.URLParamID(r, idParam)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var record T
		if err := validators.DecodeJSON(r, &record); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if bodyID := strings.TrimSpace(spec.IDOf(record)); bodyID != pathID {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "record id does not match path").
				WithDetails(map[string]any{"path": pathID, "body": bodyID}))
			return
		}

		if spec.Validate != nil {
			if err := spec.Validate(record); err != nil {
				responses.WriteError(ctx, logg, w, asValidation(err))
				return
			}
		}

		saved, err := coll.Save(ctx, record)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteRecord(w, http.StatusOK, saved)
	}
}

func Delete[T any](coll gateway.Collection[T], spec Spec[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCollection(ctx, spec.Name)
		}
		id, err := validators.URLParamID(r, idParam)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := coll.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// PatchOrder applies a partial order update. A missing order is NOT_FOUND.
func PatchOrder(coll gateway.OrderCollection, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.URLParamID(r, idParam)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithOrderID(logg.WithCollection(ctx, gateway.CollectionOrders), id)
		}

		var update orders.Update
		if err := validators.DecodeJSON(r, &update); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		saved, err := coll.Update(ctx, id, update)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteRecord(w, http.StatusOK, saved)
	}
}

func asValidation(err error) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid record")
}
