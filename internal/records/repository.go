// Package records persists the three storefront collections for the reference gateway
// server. Each repository satisfies the gateway collection contract directly, so the
// server's handlers and an in-process storefront can share one implementation.
package records

import (
	"context"
	"strings"

	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/pkg/db"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository maps one domain type D onto one GORM model M.
type Repository[D any, M any] struct {
	db       *gorm.DB
	name     string
	idOf     func(D) string
	toModel  func(D) M
	toDomain func(M) D
}

func (r *Repository[D, M]) GetAll(ctx context.Context) ([]D, error) {
	var rows []M
	if err := r.db.WithContext(ctx).Order("created_at asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list "+r.name)
	}
	out := make([]D, len(rows))
	for i, row := range rows {
		out[i] = r.toDomain(row)
	}
	return out, nil
}

// Save inserts the record or overwrites every column of an existing one, then returns
// the row as stored.
func (r *Repository[D, M]) Save(ctx context.Context, record D) (D, error) {
	var zero D
	id := strings.TrimSpace(r.idOf(record))
	if id == "" {
		return zero, pkgerrors.New(pkgerrors.CodeValidation, r.name+" record id is required")
	}
	row := r.toModel(record)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save "+r.name)
	}
	return r.find(ctx, r.db, id)
}

// Delete removes the record. Deleting an absent id succeeds.
func (r *Repository[D, M]) Delete(ctx context.Context, id string) error {
	var row M
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&row).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete "+r.name)
	}
	return nil
}

func (r *Repository[D, M]) find(ctx context.Context, conn *gorm.DB, id string) (D, error) {
	var (
		zero D
		row  M
	)
	if err := conn.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if db.IsNotFound(err) {
			return zero, pkgerrors.New(pkgerrors.CodeNotFound, r.name+" record not found").
				WithDetails(map[string]any{"id": id})
		}
		return zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+r.name)
	}
	return r.toDomain(row), nil
}

// NewGateway exposes the repositories behind the gateway contract.
func NewGateway(client *db.Client) *gateway.Gateway {
	return &gateway.Gateway{
		Products: NewProductRepository(client.DB()),
		Orders:   NewOrderRepository(client.DB(), client),
		Users:    NewUserRepository(client.DB()),
	}
}

var (
	_ gateway.Collection[types.Product]     = (*ProductRepository)(nil)
	_ gateway.OrderCollection               = (*OrderRepository)(nil)
	_ gateway.Collection[types.UserAccount] = (*UserRepository)(nil)
)
