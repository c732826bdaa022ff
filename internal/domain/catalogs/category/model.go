// Package category provides the product category catalog.
package category

import (
	"tienda/internal/core/entity"
)

// Category groups products. Deleting a category cascades to its products.
type Category struct {
	entity.Catalog
}

// NewCategory creates a new Category with required fields.
func NewCategory(name, description string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(name, description),
	}
}
