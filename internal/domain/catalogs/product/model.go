// Package product provides the Product catalog with stock counters.
package product

import (
	"context"

	"tienda/internal/core/apperror"
	"tienda/internal/core/entity"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
)

// Product is a catalog item with a stock counter.
//
// Quantity is mutated only by the posting engine inside a committed
// document-posting transaction, or by direct catalog edits going through
// the same repository.
type Product struct {
	entity.Catalog

	// CategoryID is the owning category (cascade-delete at the DB level)
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// Quantity is the stock counter, never negative
	Quantity int64 `db:"quantity" json:"quantity"`

	// UnitPrice is the current catalog price. Document lines snapshot
	// their own price and are independent of this value.
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(name, description string, categoryID id.ID, unitPrice types.Money) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(name, description),
		CategoryID: categoryID,
		UnitPrice:  unitPrice,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	if p.Quantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	return nil
}
