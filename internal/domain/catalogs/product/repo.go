package product

import (
	"context"

	"tienda/internal/core/id"
	"tienda/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetForUpdate retrieves a product with a row lock. Must be called
	// inside a transaction; concurrent postings against the same product
	// serialize on this lock.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// AdjustStock applies a stock delta inside the caller's transaction
	// scope and returns the updated product.
	AdjustStock(ctx context.Context, productID id.ID, delta int64) (*Product, error)

	// ListByCategory retrieves products of one category.
	ListByCategory(ctx context.Context, categoryID id.ID, filter domain.ListFilter) (domain.ListResult[*Product], error)
}
