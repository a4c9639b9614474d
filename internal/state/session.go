package state

import (
	"context"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

func (c *Controller) SetUserRole(ctx context.Context, role enums.UserRole) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid user role").
			WithDetails(map[string]any{"role": string(role)})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = role
	c.store.SetRole(ctx, role)
	return nil
}

func (c *Controller) SetIsLoggedIn(ctx context.Context, loggedIn bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loggedIn = loggedIn
	c.store.SetLoggedIn(ctx, loggedIn)
}

func (c *Controller) SetCurrentUser(ctx context.Context, identity types.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUser = identity
	c.store.SetCurrentUser(ctx, identity)
}

// HandleLogout resets the session to a logged-out guest customer. The cart is kept.
func (c *Controller) HandleLogout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loggedIn = false
	c.role = enums.UserRoleCustomer
	c.currentUser = types.GuestIdentity()
	c.store.SetLoggedIn(ctx, c.loggedIn)
	c.store.SetRole(ctx, c.role)
	c.store.SetCurrentUser(ctx, c.currentUser)
}

func (c *Controller) Role() enums.UserRole {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.role
}

func (c *Controller) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggedIn
}

func (c *Controller) CurrentUser() types.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentUser
}
