package types

import (
	"github.com/shopspring/decimal"
)

// Review is an immutable customer review living inside exactly one product.
type Review struct {
	ID       string `json:"id" validate:"required"`
	UserName string `json:"userName" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

// Product is a catalog entry. Reviews are append-only from the storefront's perspective.
type Product struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock" validate:"min=0"`
	Featured    bool            `json:"featured,omitempty"`
	Reviews     []Review        `json:"reviews,omitempty" validate:"dive"`
}

// Validate checks the product's field constraints.
func (p Product) Validate() error {
	return validate.Struct(p)
}

// Validate checks the review's field constraints.
func (r Review) Validate() error {
	return validate.Struct(r)
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	dup := p
	if p.Reviews != nil {
		dup.Reviews = make([]Review, len(p.Reviews))
		copy(dup.Reviews, p.Reviews)
	}
	return dup
}

// WithReview returns a copy of p with review appended to its review sequence.
func (p Product) WithReview(review Review) Product {
	dup := p.Clone()
	dup.Reviews = append(dup.Reviews, review)
	return dup
}

// AverageRating is the mean review rating, zero when the product has no reviews.
func (p Product) AverageRating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(p.Reviews))
}

// CloneProducts deep-copies a product sequence.
func CloneProducts(items []Product) []Product {
	if items == nil {
		return nil
	}
	dup := make([]Product, len(items))
	for i, p := range items {
		dup[i] = p.Clone()
	}
	return dup
}
