package models

import (
	"time"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// User is a stored storefront account. Password is kept exactly as received.
type User struct {
	ID        string          `gorm:"column:id;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Email     string          `gorm:"column:email;not null;index"`
	Phone     string          `gorm:"column:phone"`
	Password  string          `gorm:"column:password"`
	Role      enums.UserRole  `gorm:"column:role;not null"`
	JoinedOn  string          `gorm:"column:joined_on"`
	Addresses []types.Address `gorm:"column:addresses;serializer:json"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// All lists every model the gateway server migrates.
func All() []any {
	return []any{&Product{}, &Order{}, &User{}}
}
