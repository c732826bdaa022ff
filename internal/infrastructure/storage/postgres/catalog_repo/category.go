package catalog_repo

import (
	"tienda/internal/domain/catalogs/category"
	"tienda/internal/infrastructure/storage/postgres"
)

var categoryColumns = postgres.ExtractDBColumns[category.Category]()

// CategoryRepo is the PostgreSQL implementation of category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

var _ category.Repository = (*CategoryRepo)(nil)

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"categories",
			categoryColumns,
			func() *category.Category { return &category.Category{} },
		),
	}
}
