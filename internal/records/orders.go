package records

import (
	"context"
	"strings"

	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/internal/orders"
	"github.com/angelmondragon/gs-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"gorm.io/gorm"
)

type OrderRepository struct {
	Repository[types.Order, models.Order]
	tx txRunner
}

func NewOrderRepository(conn *gorm.DB, tx txRunner) *OrderRepository {
	return &OrderRepository{
		Repository: Repository[types.Order, models.Order]{
			db:       conn,
			name:     gateway.CollectionOrders,
			idOf:     func(o types.Order) string { return o.ID },
			toModel:  orderModel,
			toDomain: orderDomain,
		},
		tx: tx,
	}
}

// Update applies a partial edit inside one transaction and returns the stored order.
func (r *OrderRepository) Update(ctx context.Context, id string, update orders.Update) (types.Order, error) {
	if err := update.Validate(); err != nil {
		return types.Order{}, err
	}
	id = strings.TrimSpace(id)

	var saved types.Order
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		current, err := r.find(ctx, tx, id)
		if err != nil {
			return err
		}
		next := update.ApplyTo(current)
		row := orderModel(next)
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
			"status":          row.Status,
			"tracking_number": row.TrackingNumber,
			"carrier":         row.Carrier,
		}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update orders")
		}
		saved, err = r.find(ctx, tx, id)
		return err
	})
	if err != nil {
		return types.Order{}, err
	}
	return saved, nil
}

func orderModel(o types.Order) models.Order {
	return models.Order{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		Email:           o.Email,
		Phone:           o.Phone,
		ShippingAddress: o.ShippingAddress,
		City:            o.City,
		ZipCode:         o.ZipCode,
		Items:           types.CloneCart(o.Items),
		Total:           o.Total,
		Status:          o.Status,
		Date:            o.Date,
		TrackingNumber:  o.TrackingNumber,
		Carrier:         o.Carrier,
	}
}

func orderDomain(m models.Order) types.Order {
	items := m.Items
	if items == nil {
		items = []types.CartItem{}
	}
	return types.Order{
		ID:              m.ID,
		CustomerName:    m.CustomerName,
		Email:           m.Email,
		Phone:           m.Phone,
		ShippingAddress: m.ShippingAddress,
		City:            m.City,
		ZipCode:         m.ZipCode,
		Items:           items,
		Total:           m.Total,
		Status:          m.Status,
		Date:            m.Date,
		TrackingNumber:  m.TrackingNumber,
		Carrier:         m.Carrier,
	}
}
