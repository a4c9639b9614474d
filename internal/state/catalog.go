package state

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/gs-storefront/pkg/errors"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// AddProduct saves a new product and puts the stored record first. An empty id is
// assigned before the call.
func (c *Controller) AddProduct(ctx context.Context, product types.Product) (types.Product, error) {
	if strings.TrimSpace(product.ID) == "" {
		product.ID = c.newID()
	}
	if err := validateProduct(product); err != nil {
		return types.Product{}, err
	}
	saved, err := c.gateway.Products.Save(ctx, product)
	if err != nil {
		return types.Product{}, err
	}

	c.mu.Lock()
	c.products = prepend(c.products, saved.Clone(), productID)
	c.mu.Unlock()
	return saved, nil
}

// UpdateProduct replaces a product in place with the stored record.
func (c *Controller) UpdateProduct(ctx context.Context, product types.Product) (types.Product, error) {
	if err := validateProduct(product); err != nil {
		return types.Product{}, err
	}
	saved, err := c.gateway.Products.Save(ctx, product)
	if err != nil {
		return types.Product{}, err
	}

	c.mu.Lock()
	c.products = replace(c.products, product.ID, saved.Clone(), productID)
	c.mu.Unlock()
	return saved, nil
}

func (c *Controller) DeleteProduct(ctx context.Context, id string) error {
	if err := c.gateway.Products.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	c.products = remove(c.products, id, productID)
	c.mu.Unlock()
	return nil
}

// AddReview appends review to the product and saves the whole product back. Two contexts
// reviewing the same product concurrently race: the later save wins and the earlier
// review is lost.
func (c *Controller) AddReview(ctx context.Context, id string, review types.Review) (types.Product, error) {
	c.mu.RLock()
	target, ok := find(c.products, id, productID)
	if ok {
		target = target.Clone()
	}
	c.mu.RUnlock()
	if !ok {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"id": id})
	}

	if strings.TrimSpace(review.ID) == "" {
		review.ID = c.newID()
	}
	if strings.TrimSpace(review.Date) == "" {
		review.Date = c.now().Format(time.DateOnly)
	}
	if err := review.Validate(); err != nil {
		return types.Product{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review")
	}

	saved, err := c.gateway.Products.Save(ctx, target.WithReview(review))
	if err != nil {
		return types.Product{}, err
	}

	c.mu.Lock()
	c.products = replace(c.products, id, saved.Clone(), productID)
	c.mu.Unlock()
	return saved, nil
}

func validateProduct(product types.Product) error {
	if err := product.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
	}
	return nil
}
