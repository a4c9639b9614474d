package validators

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// ParseQueryEmail returns the trimmed email in key, or "" when absent.
func ParseQueryEmail(r *http.Request, key string) (string, error) {
	raw := SanitizeString(r.URL.Query().Get(key), 254)
	if raw == "" {
		return "", nil
	}
	if err := types.Validator().Var(raw, "email"); err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a valid email").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}

// PathID returns a trimmed, non-empty path identifier.
func PathID(raw, field string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, field+" is required").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

// URLParamID reads the chi route parameter name as a path identifier.
// chi routes on the escaped path whenever the request carries one, so the
// segment is unescaped in that case.
func URLParamID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(raw)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" is not a valid path segment").WithDetails(map[string]any{"field": name})
		}
		raw = unescaped
	}
	return PathID(raw, name)
}
