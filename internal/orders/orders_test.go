package orders

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedID string

func (f fixedID) NextID() string { return string(f) }

func TestBuildFreezesItemsAndTotal(t *testing.T) {
	items := []types.CartItem{
		{Product: types.Product{ID: "p1", Name: "Lamp", Price: decimal.NewFromInt(10)}, Quantity: 3},
	}
	info := CustomerInfo{Name: "A", Email: "a@x.com"}
	now := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)

	order := Build(items, info, now, fixedID("ORD-1234"))

	assert.Equal(t, "ORD-1234", order.ID)
	assert.Equal(t, "A", order.CustomerName)
	assert.Equal(t, "a@x.com", order.Email)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "2026-03-09", order.Date)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(30)), "total %s", order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)

	items[0].Quantity = 100
	assert.Equal(t, 3, order.Items[0].Quantity, "order items must not alias the cart")
}

func TestRandomIDGeneratorRange(t *testing.T) {
	gen := NewRandomIDGenerator(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		id := gen.NextID()
		require.True(t, ValidID(id), "unexpected id %q", id)
	}
	assert.NotNil(t, NewRandomIDGenerator(nil))
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("ORD-1000"))
	assert.True(t, ValidID("ORD-9999"))
	assert.False(t, ValidID("ORD-0999"))
	assert.False(t, ValidID("ORD-12345"))
	assert.False(t, ValidID("ord-1234"))
	assert.False(t, ValidID("ORD-12a4"))
}

func TestCustomerInfoValidate(t *testing.T) {
	require.NoError(t, CustomerInfo{Name: "A", Email: "a@x.com"}.Validate())

	err := CustomerInfo{Name: "", Email: "a@x.com"}.Validate()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = CustomerInfo{Name: "A", Email: "not-an-email"}.Validate()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateApplyTo(t *testing.T) {
	order := types.Order{ID: "ORD-1000", Status: enums.OrderStatusPending}

	shipped := TrackingUpdate("UPS", " 1Z999 ")
	require.NoError(t, shipped.Validate())
	next := shipped.ApplyTo(order)

	assert.Equal(t, enums.OrderStatusShipped, next.Status)
	assert.Equal(t, "1Z999", next.TrackingNumber)
	assert.Equal(t, "UPS", next.Carrier)
	assert.Equal(t, enums.OrderStatusPending, order.Status)

	cancelled := StatusUpdate(enums.OrderStatusCancelled).ApplyTo(next)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "1Z999", cancelled.TrackingNumber)
}

func TestUpdateValidate(t *testing.T) {
	assert.True(t, pkgerrors.IsCode(Update{}.Validate(), pkgerrors.CodeValidation))
	bogus := enums.OrderStatus("Lost")
	assert.True(t, pkgerrors.IsCode(Update{Status: &bogus}.Validate(), pkgerrors.CodeValidation))
}
