package records

import (
	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/pkg/db/models"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"gorm.io/gorm"
)

type ProductRepository struct {
	Repository[types.Product, models.Product]
}

func NewProductRepository(conn *gorm.DB) *ProductRepository {
	return &ProductRepository{Repository[types.Product, models.Product]{
		db:       conn,
		name:     gateway.CollectionProducts,
		idOf:     func(p types.Product) string { return p.ID },
		toModel:  productModel,
		toDomain: productDomain,
	}}
}

func productModel(p types.Product) models.Product {
	return models.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Stock:       p.Stock,
		Featured:    p.Featured,
		Reviews:     p.Clone().Reviews,
	}
}

func productDomain(m models.Product) types.Product {
	return types.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Image:       m.Image,
		Stock:       m.Stock,
		Featured:    m.Featured,
		Reviews:     m.Reviews,
	}
}
