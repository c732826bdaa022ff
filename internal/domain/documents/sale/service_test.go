package sale_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain"
	"tienda/internal/domain/audit"
	"tienda/internal/domain/catalogs/product"
	"tienda/internal/domain/documents/sale"
	"tienda/internal/domain/posting"
)

type passTxManager struct{}

func (passTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubProducts struct {
	products map[id.ID]*product.Product
}

func (r *stubProducts) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("products", productID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *stubProducts) AdjustStock(ctx context.Context, productID id.ID, delta int64) (*product.Product, error) {
	p := r.products[productID]
	p.Quantity += delta
	cp := *p
	return &cp, nil
}

type stubRepo struct {
	headers map[id.ID]*sale.Sale
	lines   map[id.ID][]sale.Line
	totals  map[id.ID]types.Money
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		headers: make(map[id.ID]*sale.Sale),
		lines:   make(map[id.ID][]sale.Line),
		totals:  make(map[id.ID]types.Money),
	}
}

func (r *stubRepo) Create(ctx context.Context, doc *sale.Sale) error {
	r.headers[doc.ID] = doc
	return nil
}

func (r *stubRepo) InsertLine(ctx context.Context, docID id.ID, line sale.Line) error {
	r.lines[docID] = append(r.lines[docID], line)
	return nil
}

func (r *stubRepo) SetTotal(ctx context.Context, docID id.ID, total types.Money) error {
	r.totals[docID] = total
	return nil
}

func (r *stubRepo) GetByID(ctx context.Context, docID id.ID) (*sale.Sale, error) {
	doc, ok := r.headers[docID]
	if !ok {
		return nil, apperror.NewNotFound("sales", docID.String())
	}
	return doc, nil
}

func (r *stubRepo) GetLines(ctx context.Context, docID id.ID) ([]sale.Line, error) {
	return r.lines[docID], nil
}

func (r *stubRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*sale.Sale], error) {
	result := domain.ListResult[*sale.Sale]{}
	for _, doc := range r.headers {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type noopAudit struct{}

func (noopAudit) Record(ctx context.Context, entry audit.Entry) error { return nil }

func newFixture(stock int64) (*sale.Service, *stubProducts, id.ID) {
	p := product.NewProduct("Jugo de naranja", "", id.New(), types.MustMoney("2.50"))
	p.Quantity = stock

	products := &stubProducts{products: map[id.ID]*product.Product{p.ID: p}}
	engine := posting.NewEngine(products, passTxManager{})

	return sale.NewService(newStubRepo(), engine, noopAudit{}, passTxManager{}), products, p.ID
}

func TestPost_DepletesStock(t *testing.T) {
	svc, products, productID := newFixture(10)

	doc := sale.NewSale("user-1")
	doc.AddLine(productID, 4, types.MustMoney("2.50"))

	res, err := svc.Post(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, posting.StatusCommitted, res.Status)
	assert.True(t, res.Total.Equal(types.MustMoney("10.00")))
	assert.Equal(t, int64(6), products.products[productID].Quantity)
}

func TestPost_InsufficientStock(t *testing.T) {
	svc, _, productID := newFixture(3)

	doc := sale.NewSale("user-1")
	doc.AddLine(productID, 5, types.MustMoney("2.50"))

	res, err := svc.Post(context.Background(), doc)
	require.Error(t, err)
	assert.Equal(t, posting.StatusAborted, res.Status)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Stock insuficiente para Jugo de naranja. Disponible: 3", appErr.Message)
}
