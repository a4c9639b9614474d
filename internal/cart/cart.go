// Package cart holds the pure cart arithmetic used by the state controller. Every function
// returns a fresh slice and never aliases its input.
package cart

import (
	"github.com/angelmondragon/gs-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// DefaultQuantity is used when a caller adds a product without a positive quantity.
const DefaultQuantity = 1

// Add merges product into items. An existing line with the same product id has its
// quantity increased by qty; otherwise a new line holding a snapshot of product is appended.
// No stock check is performed.
func Add(items []types.CartItem, product types.Product, qty int) []types.CartItem {
	if qty < 1 {
		qty = DefaultQuantity
	}
	next := types.CloneCart(items)
	for i := range next {
		if next[i].ID == product.ID {
			next[i].Quantity += qty
			return next
		}
	}
	return append(next, types.CartItem{Product: product.Clone(), Quantity: qty})
}

// Remove filters out the line with the given product id. Removing an absent id is a no-op.
func Remove(items []types.CartItem, productID string) []types.CartItem {
	next := make([]types.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == productID {
			continue
		}
		next = append(next, item.Clone())
	}
	return next
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero or less
// removes the line. An absent id leaves the cart unchanged; no line is created.
func SetQuantity(items []types.CartItem, productID string, qty int) []types.CartItem {
	if qty <= 0 {
		return Remove(items, productID)
	}
	next := types.CloneCart(items)
	for i := range next {
		if next[i].ID == productID {
			next[i].Quantity = qty
		}
	}
	return next
}

// Total is Σ price × quantity over items.
func Total(items []types.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Count is the number of units in the cart, as shown on the cart badge.
func Count(items []types.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Find returns the line holding productID.
func Find(items []types.CartItem, productID string) (types.CartItem, bool) {
	for _, item := range items {
		if item.ID == productID {
			return item.Clone(), true
		}
	}
	return types.CartItem{}, false
}
