package controllers

import (
	"net/http"

	"github.com/angelmondragon/gs-storefront/api/responses"
	"github.com/angelmondragon/gs-storefront/api/validators"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

type sessionView struct {
	Role        enums.UserRole `json:"userRole"`
	IsLoggedIn  bool           `json:"isLoggedIn"`
	CurrentUser types.Identity `json:"currentUser"`
}

func currentSession(svc Storefront) sessionView {
	return sessionView{Role: svc.Role(), IsLoggedIn: svc.IsLoggedIn(), CurrentUser: svc.CurrentUser()}
}

func GetSession(svc Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, currentSession(svc))
	}
}

type sessionRequest struct {
	Role        *enums.UserRole `json:"userRole,omitempty"`
	IsLoggedIn  *bool           `json:"isLoggedIn,omitempty"`
	CurrentUser *types.Identity `json:"currentUser,omitempty"`
}

// UpdateSession applies the fields a login or signup flow sets. Absent fields are kept.
func UpdateSession(svc Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload sessionRequest
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Role != nil {
			if err := svc.SetUserRole(r.Context(), *payload.Role); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if payload.CurrentUser != nil {
			svc.SetCurrentUser(r.Context(), *payload.CurrentUser)
		}
		if payload.IsLoggedIn != nil {
			svc.SetIsLoggedIn(r.Context(), *payload.IsLoggedIn)
		}
		responses.WriteSuccess(w, currentSession(svc))
	}
}

func Logout(svc Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.HandleLogout(r.Context())
		responses.WriteSuccess(w, currentSession(svc))
	}
}
