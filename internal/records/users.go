package records

import (
	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/pkg/db/models"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"gorm.io/gorm"
)

type UserRepository struct {
	Repository[types.UserAccount, models.User]
}

func NewUserRepository(conn *gorm.DB) *UserRepository {
	return &UserRepository{Repository[types.UserAccount, models.User]{
		db:       conn,
		name:     gateway.CollectionUsers,
		idOf:     func(u types.UserAccount) string { return u.ID },
		toModel:  userModel,
		toDomain: userDomain,
	}}
}

func userModel(u types.UserAccount) models.User {
	return models.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Password:  u.Password,
		Role:      u.Role,
		JoinedOn:  u.CreatedAt,
		Addresses: u.Clone().Addresses,
	}
}

func userDomain(m models.User) types.UserAccount {
	return types.UserAccount{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Password:  m.Password,
		Role:      m.Role,
		CreatedAt: m.JoinedOn,
		Addresses: m.Addresses,
	}
}
