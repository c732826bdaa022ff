package dto

import (
	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain/catalogs/product"
)

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	CatalogResponse
	CategoryID string      `json:"categoryId"`
	Quantity   int64       `json:"quantity"`
	UnitPrice  types.Money `json:"unitPrice"`
}

// FromProduct creates ProductResponse from domain entity.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		CatalogResponse: FromCatalog(p.Catalog),
		CategoryID:      p.CategoryID.String(),
		Quantity:        p.Quantity,
		UnitPrice:       p.UnitPrice,
	}
}

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	CategoryID  string      `json:"categoryId" binding:"required,uuid"`
	Quantity    int64       `json:"quantity" binding:"omitempty,min=0"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Name, r.Description, id.MustParse(r.CategoryID), r.UnitPrice)
	p.Quantity = r.Quantity
	return p
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	CategoryID  *string      `json:"categoryId" binding:"omitempty,uuid"`
	UnitPrice   *types.Money `json:"unitPrice"`
	Version     int          `json:"version" binding:"required,min=1"`
}

// ApplyTo maps the set fields onto an existing entity.
// Quantity is deliberately absent: stock changes only through documents.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.CategoryID != nil {
		p.CategoryID = id.MustParse(*r.CategoryID)
	}
	if r.UnitPrice != nil {
		p.UnitPrice = *r.UnitPrice
	}
	p.Version = r.Version
}
