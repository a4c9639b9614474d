package types

import (
	"encoding/json"
	"testing"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemMarshalsFlatWithNumericPrice(t *testing.T) {
	item := CartItem{
		Product:  Product{ID: "p1", Name: "Lamp", Price: decimal.RequireFromString("10.50")},
		Quantity: 2,
	}

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "p1", generic["id"])
	assert.Equal(t, 10.5, generic["price"])
	assert.Equal(t, float64(2), generic["quantity"])

	var back CartItem
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Price.Equal(item.Price))
	assert.Equal(t, 2, back.Quantity)
}

func TestLineTotal(t *testing.T) {
	item := CartItem{Product: Product{Price: decimal.RequireFromString("19.99")}, Quantity: 3}
	assert.Equal(t, "59.97", item.LineTotal().String())
}

func TestProductCloneDoesNotShareReviews(t *testing.T) {
	p := Product{ID: "p1", Reviews: []Review{{ID: "r1", Rating: 5}}}
	dup := p.Clone()
	dup.Reviews[0].Comment = "changed"
	assert.Empty(t, p.Reviews[0].Comment)

	withReview := p.WithReview(Review{ID: "r2", Rating: 3})
	assert.Len(t, p.Reviews, 1)
	assert.Len(t, withReview.Reviews, 2)
	assert.Equal(t, 4.0, withReview.AverageRating())
}

func TestProductValidate(t *testing.T) {
	valid := Product{ID: "p1", Name: "Lamp", Price: decimal.NewFromInt(5), Stock: 1}
	require.NoError(t, valid.Validate())

	negative := valid
	negative.Price = decimal.NewFromInt(-1)
	assert.Error(t, negative.Validate())

	badReview := valid.WithReview(Review{ID: "r1", UserName: "A", Rating: 9})
	assert.Error(t, badReview.Validate())
}

func TestUserAccountDefaults(t *testing.T) {
	user := UserAccount{
		ID:    "u1",
		Name:  "Ada",
		Email: "ada@example.com",
		Role:  enums.UserRoleCustomer,
		Addresses: []Address{
			{ID: "a1", Label: "Home"},
			{ID: "a2", Label: "Work", IsDefault: true},
		},
	}
	require.NoError(t, user.Validate())

	addr, ok := user.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "a2", addr.ID)
	assert.Equal(t, 1, user.DefaultAddressCount())

	user.Role = "ROOT"
	assert.Error(t, user.Validate())
}

func TestGuestIdentity(t *testing.T) {
	guest := GuestIdentity()
	assert.Equal(t, "Guest User", guest.Name)
	assert.True(t, guest.IsGuest())
	assert.False(t, Identity{Name: "A", Email: "a@x.com"}.IsGuest())
}

func TestOrderCloneCopiesItems(t *testing.T) {
	order := Order{ID: "ORD-1000", Items: []CartItem{{Product: Product{ID: "p1"}, Quantity: 1}}}
	dup := order.Clone()
	dup.Items[0].Quantity = 9
	assert.Equal(t, 1, order.Items[0].Quantity)
}
