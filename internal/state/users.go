package state

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// AddUser saves a new account and puts the stored record first. Missing ids, role and
// creation date are filled in before the call.
func (c *Controller) AddUser(ctx context.Context, user types.UserAccount) (types.UserAccount, error) {
	if strings.TrimSpace(user.ID) == "" {
		user.ID = c.newID()
	}
	if user.Role == "" {
		user.Role = enums.UserRoleCustomer
	}
	if strings.TrimSpace(user.CreatedAt) == "" {
		user.CreatedAt = c.now().Format(time.DateOnly)
	}
	user = c.withAddressIDs(user)
	if err := validateUser(user); err != nil {
		return types.UserAccount{}, err
	}
	saved, err := c.gateway.Users.Save(ctx, user)
	if err != nil {
		return types.UserAccount{}, err
	}

	c.mu.Lock()
	c.users = prepend(c.users, saved.Clone(), userID)
	c.mu.Unlock()
	return saved, nil
}

func (c *Controller) UpdateUser(ctx context.Context, user types.UserAccount) (types.UserAccount, error) {
	user = c.withAddressIDs(user)
	if err := validateUser(user); err != nil {
		return types.UserAccount{}, err
	}
	saved, err := c.gateway.Users.Save(ctx, user)
	if err != nil {
		return types.UserAccount{}, err
	}

	c.mu.Lock()
	c.users = replace(c.users, user.ID, saved.Clone(), userID)
	c.mu.Unlock()
	return saved, nil
}

func (c *Controller) DeleteUser(ctx context.Context, id string) error {
	if err := c.gateway.Users.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.users = remove(c.users, id, userID)
	c.mu.Unlock()
	return nil
}

// UpdateOrder applies a partial edit through the gateway and swaps in the stored order.
func (c *Controller) UpdateOrder(ctx context.Context, id string, update orders.Update) (types.Order, error) {
	if err := update.Validate(); err != nil {
		return types.Order{}, err
	}
	saved, err := c.gateway.Orders.Update(ctx, id, update)
	if err != nil {
		return types.Order{}, err
	}

	c.mu.Lock()
	c.orders = replace(c.orders, id, saved.Clone(), orderID)
	c.mu.Unlock()
	c.logg.Info(c.logg.WithOrderID(c.logCtx(ctx), id), "order updated")
	return saved, nil
}

func (c *Controller) withAddressIDs(user types.UserAccount) types.UserAccount {
	user = user.Clone()
	for i := range user.Addresses {
		if strings.TrimSpace(user.Addresses[i].ID) == "" {
			user.Addresses[i].ID = c.newID()
		}
	}
	return user
}

// validateUser also enforces that at most one address is the default.
func validateUser(user types.UserAccount) error {
	if err := user.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user")
	}
	if count := user.DefaultAddressCount(); count > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "only one address can be the default").
			WithDetails(map[string]any{"defaults": count})
	}
	return nil
}
