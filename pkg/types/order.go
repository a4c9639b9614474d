package types

import (
	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// CartItem is a value snapshot of a product taken when it was added to the cart.
// Later catalog edits never change an existing cart line.
type CartItem struct {
	Product
	Quantity int `json:"quantity" validate:"min=1"`
}

// LineTotal is price × quantity for this line.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Clone returns a copy that shares no slices with c.
func (c CartItem) Clone() CartItem {
	return CartItem{Product: c.Product.Clone(), Quantity: c.Quantity}
}

// CloneCart deep-copies a cart sequence. The result is never nil.
func CloneCart(items []CartItem) []CartItem {
	dup := make([]CartItem, len(items))
	for i, item := range items {
		dup[i] = item.Clone()
	}
	return dup
}

// Order is the authoritative record of a placed checkout. Items and Total are frozen at
// placement and never recomputed.
type Order struct {
	ID              string            `json:"id" validate:"required"`
	CustomerName    string            `json:"customerName" validate:"required"`
	Email           string            `json:"email" validate:"required,email"`
	Phone           string            `json:"phone,omitempty"`
	ShippingAddress string            `json:"shippingAddress,omitempty"`
	City            string            `json:"city,omitempty"`
	ZipCode         string            `json:"zipCode,omitempty"`
	Items           []CartItem        `json:"items" validate:"dive"`
	Total           decimal.Decimal   `json:"total"`
	Status          enums.OrderStatus `json:"status"`
	Date            string            `json:"date"`
	TrackingNumber  string            `json:"trackingNumber,omitempty"`
	Carrier         string            `json:"carrier,omitempty"`
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	dup := o
	if o.Items != nil {
		dup.Items = CloneCart(o.Items)
	}
	return dup
}

// CloneOrders deep-copies an order sequence.
func CloneOrders(items []Order) []Order {
	if items == nil {
		return nil
	}
	dup := make([]Order, len(items))
	for i, o := range items {
		dup[i] = o.Clone()
	}
	return dup
}
