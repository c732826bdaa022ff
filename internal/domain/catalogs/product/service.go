package product

import (
	"context"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/tx"
	"tienda/internal/domain"
)

// CategoryChecker reports whether a category exists.
// Implemented by the category repository.
type CategoryChecker interface {
	Exists(ctx context.Context, categoryID id.ID) (bool, error)
}

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo       Repository
	categories CategoryChecker
}

// NewService creates a new Product service.
func NewService(repo Repository, categories CategoryChecker, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
	}

	base.Hooks().OnBeforeCreate(svc.prepare)
	base.Hooks().OnBeforeUpdate(svc.prepare)

	return svc
}

// prepare checks name uniqueness and that the referenced category exists.
func (s *Service) prepare(ctx context.Context, item *Product) error {
	existing, err := s.repo.GetByName(ctx, item.Name)
	switch {
	case err == nil && existing.ID != item.ID:
		return apperror.NewDuplicate("product", "name", item.Name)
	case err != nil && !apperror.IsNotFound(err):
		return err
	}

	ok, err := s.categories.Exists(ctx, item.CategoryID)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("check", "category")
	}
	if !ok {
		return apperror.NewNotFound("category", item.CategoryID.String())
	}

	return nil
}

// ListByCategory retrieves products of one category.
func (s *Service) ListByCategory(ctx context.Context, categoryID id.ID, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.ListByCategory(ctx, categoryID, filter)
}
