package models

import (
	"time"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Order is the stored order. Items are the frozen cart snapshot taken at checkout.
type Order struct {
	ID              string            `gorm:"column:id;primaryKey"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	Email           string            `gorm:"column:email;not null;index"`
	Phone           string            `gorm:"column:phone"`
	ShippingAddress string            `gorm:"column:shipping_address"`
	City            string            `gorm:"column:city"`
	ZipCode         string            `gorm:"column:zip_code"`
	Items           []types.CartItem  `gorm:"column:items;serializer:json"`
	Total           decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;not null"`
	Date            string            `gorm:"column:date"`
	TrackingNumber  string            `gorm:"column:tracking_number"`
	Carrier         string            `gorm:"column:carrier"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
