// Package storefront is the sending side of cross-context sync. Service embeds the state
// controller and, after every successful write to shared data, posts the controller's
// current copy of the affected collection on the sync topic.
package storefront

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/internal/state"
	"github.com/angelmondragon/gs-storefront/internal/syncbus"
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

type Service struct {
	*state.Controller
	announcer *syncbus.Announcer
	logg      *logger.Logger
}

func NewService(ctrl *state.Controller, announcer *syncbus.Announcer, logg *logger.Logger) (*Service, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("state controller required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{Controller: ctrl, announcer: announcer, logg: logg}, nil
}

func (s *Service) PlaceOrder(ctx context.Context, info orders.CustomerInfo) (string, error) {
	id, err := s.Controller.PlaceOrder(ctx, info)
	if err != nil {
		return "", err
	}
	s.announce(ctx, enums.SyncOrders)
	return id, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id string, update orders.Update) (types.Order, error) {
	saved, err := s.Controller.UpdateOrder(ctx, id, update)
	if err != nil {
		return types.Order{}, err
	}
	s.announce(ctx, enums.SyncOrders)
	return saved, nil
}

func (s *Service) AddProduct(ctx context.Context, product types.Product) (types.Product, error) {
	saved, err := s.Controller.AddProduct(ctx, product)
	if err != nil {
		return types.Product{}, err
	}
	s.announce(ctx, enums.SyncProducts)
	return saved, nil
}

func (s *Service) UpdateProduct(ctx context.Context, product types.Product) (types.Product, error) {
	saved, err := s.Controller.UpdateProduct(ctx, product)
	if err != nil {
		return types.Product{}, err
	}
	s.announce(ctx, enums.SyncProducts)
	return saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Controller.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.announce(ctx, enums.SyncProducts)
	return nil
}

func (s *Service) AddReview(ctx context.Context, productID string, review types.Review) (types.Product, error) {
	saved, err := s.Controller.AddReview(ctx, productID, review)
	if err != nil {
		return types.Product{}, err
	}
	s.announce(ctx, enums.SyncProducts)
	return saved, nil
}

func (s *Service) AddUser(ctx context.Context, user types.UserAccount) (types.UserAccount, error) {
	saved, err := s.Controller.AddUser(ctx, user)
	if err != nil {
		return types.UserAccount{}, err
	}
	s.announce(ctx, enums.SyncUsers)
	return saved, nil
}

func (s *Service) UpdateUser(ctx context.Context, user types.UserAccount) (types.UserAccount, error) {
	saved, err := s.Controller.UpdateUser(ctx, user)
	if err != nil {
		return types.UserAccount{}, err
	}
	s.announce(ctx, enums.SyncUsers)
	return saved, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.Controller.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.announce(ctx, enums.SyncUsers)
	return nil
}

// announce never fails the write: it already committed at the gateway. The announcer
// logs broadcast failures.
func (s *Service) announce(ctx context.Context, kind enums.SyncMessageType) {
	if s.announcer == nil {
		return
	}
	var err error
	switch kind {
	case enums.SyncProducts:
		err = s.announcer.Products(ctx, s.Products())
	case enums.SyncOrders:
		err = s.announcer.Orders(ctx, s.Orders())
	case enums.SyncUsers:
		err = s.announcer.Users(ctx, s.Users())
	}
	if err != nil {
		s.logg.Warn(s.logg.WithContextID(ctx, s.ContextID()), "sibling contexts may be stale until their next update")
	}
}
