package dto

import (
	"tienda/internal/domain/catalogs/category"
)

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	CatalogResponse
}

// FromCategory creates CategoryResponse from domain entity.
func FromCategory(c *category.Category) CategoryResponse {
	return CategoryResponse{
		CatalogResponse: FromCatalog(c.Catalog),
	}
}

// CreateCategoryRequest for creating categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	return category.NewCategory(r.Name, r.Description)
}

// UpdateCategoryRequest for updating categories.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo maps the set fields onto an existing entity.
func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	c.Version = r.Version
}
