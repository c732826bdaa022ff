package purchase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/security"
	"tienda/internal/core/types"
	"tienda/internal/domain"
	"tienda/internal/domain/audit"
	"tienda/internal/domain/catalogs/product"
	"tienda/internal/domain/documents/purchase"
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
	headers map[id.ID]*purchase.Purchase
	lines   map[id.ID][]purchase.Line
	totals  map[id.ID]types.Money
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		headers: make(map[id.ID]*purchase.Purchase),
		lines:   make(map[id.ID][]purchase.Line),
		totals:  make(map[id.ID]types.Money),
	}
}

func (r *stubRepo) Create(ctx context.Context, doc *purchase.Purchase) error {
	r.headers[doc.ID] = doc
	return nil
}

func (r *stubRepo) InsertLine(ctx context.Context, docID id.ID, line purchase.Line) error {
	r.lines[docID] = append(r.lines[docID], line)
	return nil
}

func (r *stubRepo) SetTotal(ctx context.Context, docID id.ID, total types.Money) error {
	r.totals[docID] = total
	return nil
}

func (r *stubRepo) GetByID(ctx context.Context, docID id.ID) (*purchase.Purchase, error) {
	doc, ok := r.headers[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchases", docID.String())
	}
	return doc, nil
}

func (r *stubRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase.Line, error) {
	return r.lines[docID], nil
}

func (r *stubRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	result := domain.ListResult[*purchase.Purchase]{}
	for _, doc := range r.headers {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

type stubAudit struct {
	entries []audit.Entry
	fail    bool
}

func (a *stubAudit) Record(ctx context.Context, entry audit.Entry) error {
	if a.fail {
		return errors.New("audit store down")
	}
	a.entries = append(a.entries, entry)
	return nil
}

func newFixture(stock int64) (*purchase.Service, *stubRepo, *stubAudit, id.ID) {
	p := product.NewProduct("Agua mineral", "", id.New(), types.MustMoney("1.20"))
	p.Quantity = stock

	products := &stubProducts{products: map[id.ID]*product.Product{p.ID: p}}
	engine := posting.NewEngine(products, passTxManager{})
	repo := newStubRepo()
	recorder := &stubAudit{}

	return purchase.NewService(repo, engine, recorder, passTxManager{}), repo, recorder, p.ID
}

func TestPost_PersistsAndAudits(t *testing.T) {
	svc, repo, recorder, productID := newFixture(0)

	doc := purchase.NewPurchase("Distribuidora Sur", "user-1")
	doc.AddLine(productID, 5, types.MustMoney("10.00"))

	res, err := svc.Post(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, posting.StatusCommitted, res.Status)
	assert.Equal(t, doc.ID, res.DocumentID)
	assert.True(t, res.Total.Equal(types.MustMoney("50.00")))

	assert.Contains(t, repo.headers, doc.ID)
	assert.Len(t, repo.lines[doc.ID], 1)
	assert.True(t, repo.totals[doc.ID].Equal(types.MustMoney("50.00")))

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, "purchase", entry.EntityType)
	assert.Equal(t, doc.ID, entry.EntityID)
	assert.Equal(t, audit.ActionPost, entry.Action)
	assert.Equal(t, "user-1", entry.UserID)
}

func TestPost_CreatedByFromContext(t *testing.T) {
	svc, repo, _, productID := newFixture(0)

	ctx := security.WithUserID(context.Background(), "ctx-user")

	doc := purchase.NewPurchase("Distribuidora Sur", "")
	doc.AddLine(productID, 1, types.MustMoney("1.20"))

	_, err := svc.Post(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t, "ctx-user", repo.headers[doc.ID].CreatedBy)
}

func TestPost_RejectsInvalidDocument(t *testing.T) {
	svc, repo, recorder, _ := newFixture(0)

	doc := purchase.NewPurchase("Distribuidora Sur", "")

	res, err := svc.Post(context.Background(), doc)
	require.Error(t, err)
	assert.Equal(t, posting.StatusRejected, res.Status)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyDocument))

	assert.Empty(t, repo.headers)
	assert.Empty(t, recorder.entries)
}

func TestPost_AuditFailureDoesNotFailPosting(t *testing.T) {
	svc, repo, recorder, productID := newFixture(0)
	recorder.fail = true

	doc := purchase.NewPurchase("Distribuidora Sur", "user-1")
	doc.AddLine(productID, 2, types.MustMoney("1.20"))

	res, err := svc.Post(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, posting.StatusCommitted, res.Status)
	assert.Contains(t, repo.headers, doc.ID)
}

func TestGetByID_LoadsLines(t *testing.T) {
	svc, _, _, productID := newFixture(0)

	doc := purchase.NewPurchase("Distribuidora Sur", "user-1")
	doc.AddLine(productID, 2, types.MustMoney("1.20"))
	doc.AddLine(productID, 1, types.MustMoney("1.10"))

	_, err := svc.Post(context.Background(), doc)
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 1, got.Lines[0].LineNo)
}
