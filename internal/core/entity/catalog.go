package entity

import (
	"context"

	"tienda/internal/core/apperror"
)

// Catalog is the base type for reference data (categories, products).
type Catalog struct {
	Base

	// Name is the display name (unique)
	Name string `db:"name" json:"name"`

	// Description is a free-form description
	Description string `db:"description" json:"description"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(name, description string) Catalog {
	return Catalog{
		Base:        NewBase(),
		Name:        name,
		Description: description,
		Version:     1,
	}
}

// Validate implements Validatable.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
