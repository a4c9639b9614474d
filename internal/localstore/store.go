// Package localstore persists the slow-changing values a storefront context owns outright:
// cart contents, the login flag, the active role and the current user identity. Values
// survive restarts of the context within one profile.
package localstore

import (
	"context"
	"encoding/json"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// Keys in use. They match the storage keys of the browser storefront so profiles migrate as-is.
const (
	KeyCart     = "gs_cart"
	KeyLoggedIn = "gs_is_logged_in"
	KeyRole     = "gs_user_role"
	KeyUser     = "gs_user"
)

// Backend is raw byte storage keyed by string.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Store(ctx context.Context, key string, value []byte) error
}

// Store is the typed view over a Backend. Reads fall back to defaults; writes never
// return an error to the caller. Failures are logged.
type Store struct {
	backend Backend
	logg    *logger.Logger
}

func New(backend Backend, logg *logger.Logger) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{backend: backend, logg: logg}
}

// Cart returns the persisted cart, or an empty cart.
func (s *Store) Cart(ctx context.Context) []types.CartItem {
	items := load(ctx, s, KeyCart, []types.CartItem{})
	if items == nil {
		return []types.CartItem{}
	}
	return items
}

func (s *Store) SetCart(ctx context.Context, items []types.CartItem) {
	if items == nil {
		items = []types.CartItem{}
	}
	s.save(ctx, KeyCart, items)
}

// LoggedIn returns the persisted login flag, false by default.
func (s *Store) LoggedIn(ctx context.Context) bool {
	return load(ctx, s, KeyLoggedIn, false)
}

func (s *Store) SetLoggedIn(ctx context.Context, loggedIn bool) {
	s.save(ctx, KeyLoggedIn, loggedIn)
}

// Role returns the persisted role, CUSTOMER by default or when the stored value is unknown.
func (s *Store) Role(ctx context.Context) enums.UserRole {
	role := load(ctx, s, KeyRole, enums.UserRoleCustomer)
	if !role.IsValid() {
		return enums.UserRoleCustomer
	}
	return role
}

func (s *Store) SetRole(ctx context.Context, role enums.UserRole) {
	s.save(ctx, KeyRole, role)
}

// CurrentUser returns the persisted identity, the guest identity by default.
func (s *Store) CurrentUser(ctx context.Context) types.Identity {
	return load(ctx, s, KeyUser, types.GuestIdentity())
}

func (s *Store) SetCurrentUser(ctx context.Context, identity types.Identity) {
	s.save(ctx, KeyUser, identity)
}

func load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	raw, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "key", key), "local store read failed, using default")
		return fallback
	}
	if !ok || len(raw) == 0 {
		return fallback
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "key", key), "local store value corrupt, using default")
		return fallback
	}
	return value
}

func (s *Store) save(ctx context.Context, key string, value any) {
	logCtx := s.logg.WithField(ctx, "key", key)
	raw, err := json.Marshal(value)
	if err != nil {
		s.logg.Error(logCtx, "local store encode failed", err)
		return
	}
	if err := s.backend.Store(ctx, key, raw); err != nil {
		s.logg.Error(logCtx, "local store write failed", err)
	}
}
