package models

import (
	"time"

	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is the stored catalog entry. Reviews live inside the row as JSON.
type Product struct {
	ID          string          `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category    string          `gorm:"column:category;index"`
	Image       string          `gorm:"column:image"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Featured    bool            `gorm:"column:featured;not null;default:false"`
	Reviews     []types.Review  `gorm:"column:reviews;serializer:json"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
