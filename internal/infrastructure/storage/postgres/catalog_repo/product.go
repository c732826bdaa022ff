package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/domain"
	"tienda/internal/domain/catalogs/product"
	"tienda/internal/infrastructure/storage/postgres"
)

var productColumns = postgres.ExtractDBColumns[product.Product]()

// ProductRepo is the PostgreSQL implementation of product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"products",
			productColumns,
			func() *product.Product { return &product.Product{} },
		),
	}
}

// GetForUpdate retrieves a product with FOR UPDATE. The row lock is held
// until the surrounding transaction ends, so concurrent postings against
// the same product serialize here.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	p := &product.Product{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": productID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("products", productID.String())
		}
		return nil, fmt.Errorf("get for update: %w", err)
	}

	return p, nil
}

// AdjustStock applies a signed stock delta and returns the updated product.
// Runs in the caller's transaction scope; the CHECK (quantity >= 0)
// constraint is the last line of defense behind the engine's availability
// check.
func (r *ProductRepo) AdjustStock(ctx context.Context, productID id.ID, delta int64) (*product.Product, error) {
	q := r.Builder().
		Update("products").
		Set("quantity", squirrel.Expr("quantity + ?", delta)).
		Set("modified_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": productID}).
		Suffix("RETURNING " + joinColumns(productColumns))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	p := &product.Product{}
	if err := pgxscan.Get(ctx, r.Querier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("products", productID.String())
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	return p, nil
}

// ListByCategory retrieves products of one category.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID id.ID, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	return r.listWhere(ctx, filter, squirrel.Eq{"category_id": categoryID})
}
