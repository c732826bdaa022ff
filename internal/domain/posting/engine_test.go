package posting_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain/catalogs/product"
	"tienda/internal/domain/posting"
)

// memDB is shared in-memory state for engine tests. The tx manager
// snapshots it before each transaction and restores it on failure, so
// rollback totality can be asserted directly.
type memDB struct {
	mu       sync.Mutex
	products map[id.ID]*product.Product
	headers  map[id.ID]bool
	lines    map[id.ID][]posting.Line
	totals   map[id.ID]types.Money
}

func newMemDB() *memDB {
	return &memDB{
		products: make(map[id.ID]*product.Product),
		headers:  make(map[id.ID]bool),
		lines:    make(map[id.ID][]posting.Line),
		totals:   make(map[id.ID]types.Money),
	}
}

func (db *memDB) addProduct(name string, quantity int64) id.ID {
	p := product.NewProduct(name, "", id.New(), types.Zero())
	p.Quantity = quantity
	db.products[p.ID] = p
	return p.ID
}

func (db *memDB) snapshot() *memDB {
	snap := newMemDB()
	for k, v := range db.products {
		cp := *v
		snap.products[k] = &cp
	}
	for k, v := range db.headers {
		snap.headers[k] = v
	}
	for k, v := range db.lines {
		snap.lines[k] = append([]posting.Line(nil), v...)
	}
	for k, v := range db.totals {
		snap.totals[k] = v
	}
	return snap
}

func (db *memDB) restore(snap *memDB) {
	db.products = snap.products
	db.headers = snap.headers
	db.lines = snap.lines
	db.totals = snap.totals
}

// memTxManager serializes transactions on the db mutex and rolls the
// state back when fn fails.
type memTxManager struct {
	db *memDB
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	snap := m.db.snapshot()
	if err := fn(ctx); err != nil {
		m.db.restore(snap)
		return err
	}
	return nil
}

// memProducts implements posting.Products over memDB.
type memProducts struct {
	db *memDB
}

func (r *memProducts) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, ok := r.db.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("products", productID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *memProducts) AdjustStock(ctx context.Context, productID id.ID, delta int64) (*product.Product, error) {
	p, ok := r.db.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("products", productID.String())
	}
	if p.Quantity+delta < 0 {
		return nil, errors.New("check constraint violated: quantity >= 0")
	}
	p.Quantity += delta
	cp := *p
	return &cp, nil
}

// memStore implements posting.Store over memDB, with optional injected
// failures.
type memStore struct {
	db    *memDB
	docID id.ID

	failHeader   bool
	failLineNo   int
	failSetTotal bool
}

func newMemStore(db *memDB) *memStore {
	return &memStore{db: db, docID: id.New()}
}

func (s *memStore) DocumentID() id.ID { return s.docID }

func (s *memStore) InsertHeader(ctx context.Context) error {
	if s.failHeader {
		return errors.New("insert header failed")
	}
	s.db.headers[s.docID] = true
	return nil
}

func (s *memStore) InsertLine(ctx context.Context, lineNo int, line posting.Line) error {
	if s.failLineNo > 0 && lineNo == s.failLineNo {
		return errors.New("insert line failed")
	}
	s.db.lines[s.docID] = append(s.db.lines[s.docID], line)
	return nil
}

func (s *memStore) SetTotal(ctx context.Context, total types.Money) error {
	if s.failSetTotal {
		return errors.New("set total failed")
	}
	s.db.totals[s.docID] = total
	return nil
}

func newTestEngine(db *memDB) *posting.Engine {
	return posting.NewEngine(&memProducts{db: db}, &memTxManager{db: db})
}

func (db *memDB) quantity(t *testing.T, productID id.ID) int64 {
	t.Helper()
	p, ok := db.products[productID]
	require.True(t, ok)
	return p.Quantity
}

func TestPost_PurchaseIncreasesStock(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Agua mineral", 0)
	engine := newTestEngine(db)
	store := newMemStore(db)

	res, err := engine.Post(ctx, posting.Request{
		Kind: posting.KindPurchase,
		Lines: []posting.Line{
			{ProductID: p1, Quantity: 5, UnitPrice: types.MustMoney("10.00")},
			{ProductID: p1, Quantity: 3, UnitPrice: types.MustMoney("10.00")},
		},
	}, store)

	require.NoError(t, err)
	assert.Equal(t, posting.StatusCommitted, res.Status)
	assert.Equal(t, store.DocumentID(), res.DocumentID)
	assert.True(t, res.Total.Equal(types.MustMoney("80.00")), "total = %s", res.Total)

	assert.Equal(t, int64(8), db.quantity(t, p1))
	assert.True(t, db.headers[store.DocumentID()])
	assert.Len(t, db.lines[store.DocumentID()], 2)
	assert.True(t, db.totals[store.DocumentID()].Equal(types.MustMoney("80.00")))
}

func TestPost_SaleDepletesStock(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Agua mineral", 10)
	engine := newTestEngine(db)
	store := newMemStore(db)

	res, err := engine.Post(ctx, posting.Request{
		Kind: posting.KindSale,
		Lines: []posting.Line{
			{ProductID: p1, Quantity: 4, UnitPrice: types.MustMoney("10.00")},
		},
	}, store)

	require.NoError(t, err)
	assert.Equal(t, posting.StatusCommitted, res.Status)
	assert.True(t, res.Total.Equal(types.MustMoney("40.00")))
	assert.Equal(t, int64(6), db.quantity(t, p1))
	assert.Len(t, db.lines[store.DocumentID()], 1)
}

func TestPost_TotalSumsLineSubtotals(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Leche entera", 100)
	p2 := db.addProduct("Queso fresco", 100)
	engine := newTestEngine(db)
	store := newMemStore(db)

	res, err := engine.Post(ctx, posting.Request{
		Kind: posting.KindSale,
		Lines: []posting.Line{
			{ProductID: p1, Quantity: 3, UnitPrice: types.MustMoney("1.10")},
			{ProductID: p2, Quantity: 2, UnitPrice: types.MustMoney("4.75")},
			{ProductID: p1, Quantity: 1, UnitPrice: types.MustMoney("0.99")},
		},
	}, store)

	require.NoError(t, err)
	// 3*1.10 + 2*4.75 + 1*0.99
	assert.True(t, res.Total.Equal(types.MustMoney("13.79")), "total = %s", res.Total)
	assert.Equal(t, int64(96), db.quantity(t, p1))
	assert.Equal(t, int64(98), db.quantity(t, p2))
}

func TestPost_SaleInsufficientStock(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Jugo de naranja", 3)
	engine := newTestEngine(db)
	store := newMemStore(db)

	res, err := engine.Post(ctx, posting.Request{
		Kind: posting.KindSale,
		Lines: []posting.Line{
			{ProductID: p1, Quantity: 5, UnitPrice: types.MustMoney("2.50")},
		},
	}, store)

	require.Error(t, err)
	assert.Equal(t, posting.StatusAborted, res.Status)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Stock insuficiente para Jugo de naranja. Disponible: 3", appErr.Message)
	assert.Equal(t, 400, appErr.HTTPStatus)

	// Nothing persisted, stock untouched.
	assert.Equal(t, int64(3), db.quantity(t, p1))
	assert.False(t, db.headers[store.DocumentID()])
	assert.Empty(t, db.lines[store.DocumentID()])
}

func TestPost_SaleDepletionIsCumulative(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Leche entera", 5)
	engine := newTestEngine(db)
	store := newMemStore(db)

	// Each line alone fits, together they do not. The second line must
	// see the first line's depletion.
	res, err := engine.Post(ctx, posting.Request{
		Kind: posting.KindSale,
		Lines: []posting.Line{
			{ProductID: p1, Quantity: 3, UnitPrice: types.MustMoney("1.10")},
			{ProductID: p1, Quantity: 3, UnitPrice: types.MustMoney("1.10")},
		},
	}, store)

	require.Error(t, err)
	assert.Equal(t, posting.StatusAborted, res.Status)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "Stock insuficiente para Leche entera. Disponible: 2", appErr.Message)

	// First line's effects rolled back too.
	assert.Equal(t, int64(5), db.quantity(t, p1))
	assert.False(t, db.headers[store.DocumentID()])
	assert.Empty(t, db.lines[store.DocumentID()])
}

func TestPost_EmptyDocument(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	engine := newTestEngine(db)
	store := newMemStore(db)

	res, err := engine.Post(ctx, posting.Request{Kind: posting.KindSale}, store)

	require.Error(t, err)
	assert.Equal(t, posting.StatusRejected, res.Status)
	assert.True(t, apperror.IsCode(err, apperror.CodeEmptyDocument))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Debes enviar al menos un producto", appErr.Message)
	assert.Equal(t, 406, appErr.HTTPStatus)

	// Rejected before any transaction: no header was written.
	assert.False(t, db.headers[store.DocumentID()])
}

func TestPost_InvalidLines(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Agua mineral", 10)
	engine := newTestEngine(db)

	cases := []struct {
		name string
		line posting.Line
	}{
		{"nil product", posting.Line{Quantity: 1, UnitPrice: types.MustMoney("1.00")}},
		{"zero quantity", posting.Line{ProductID: p1, Quantity: 0, UnitPrice: types.MustMoney("1.00")}},
		{"negative quantity", posting.Line{ProductID: p1, Quantity: -2, UnitPrice: types.MustMoney("1.00")}},
		{"negative price", posting.Line{ProductID: p1, Quantity: 1, UnitPrice: types.MustMoney("-0.01")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore(db)
			res, err := engine.Post(ctx, posting.Request{
				Kind:  posting.KindPurchase,
				Lines: []posting.Line{tc.line},
			}, store)

			require.Error(t, err)
			assert.Equal(t, posting.StatusRejected, res.Status)
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidLine))
			assert.False(t, db.headers[store.DocumentID()])
		})
	}
}

func TestPost_UnknownKind(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Agua mineral", 10)
	engine := newTestEngine(db)

	res, err := engine.Post(ctx, posting.Request{
		Kind: posting.Kind("transfer"),
		Lines: []posting.Line{
			{ProductID: p1, Quantity: 1, UnitPrice: types.MustMoney("1.00")},
		},
	}, newMemStore(db))

	require.Error(t, err)
	assert.Equal(t, posting.StatusRejected, res.Status)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestPost_UnknownProductRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Agua mineral", 10)
	engine := newTestEngine(db)
	store := newMemStore(db)

	res, err := engine.Post(ctx, posting.Request{
		Kind: posting.KindPurchase,
		Lines: []posting.Line{
			{ProductID: p1, Quantity: 2, UnitPrice: types.MustMoney("1.20")},
			{ProductID: id.New(), Quantity: 1, UnitPrice: types.MustMoney("1.00")},
		},
	}, store)

	require.Error(t, err)
	assert.Equal(t, posting.StatusAborted, res.Status)
	assert.True(t, apperror.IsNotFound(err))

	// The valid first line must not survive.
	assert.Equal(t, int64(10), db.quantity(t, p1))
	assert.False(t, db.headers[store.DocumentID()])
	assert.Empty(t, db.lines[store.DocumentID()])
}

func TestPost_PersistenceFailureWrapped(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Agua mineral", 10)
	engine := newTestEngine(db)

	cases := []struct {
		name  string
		setup func(s *memStore)
	}{
		{"header", func(s *memStore) { s.failHeader = true }},
		{"second line", func(s *memStore) { s.failLineNo = 2 }},
		{"total", func(s *memStore) { s.failSetTotal = true }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemStore(db)
			tc.setup(store)

			res, err := engine.Post(ctx, posting.Request{
				Kind: posting.KindPurchase,
				Lines: []posting.Line{
					{ProductID: p1, Quantity: 2, UnitPrice: types.MustMoney("1.20")},
					{ProductID: p1, Quantity: 1, UnitPrice: types.MustMoney("1.20")},
				},
			}, store)

			require.Error(t, err)
			assert.Equal(t, posting.StatusAborted, res.Status)
			assert.True(t, apperror.IsCode(err, apperror.CodeDatabase))

			assert.Equal(t, int64(10), db.quantity(t, p1))
			assert.False(t, db.headers[store.DocumentID()])
			assert.Empty(t, db.lines[store.DocumentID()])
			assert.NotContains(t, db.totals, store.DocumentID())
		})
	}
}

func TestPost_ConcurrentSalesNeverNegative(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	p1 := db.addProduct("Queso fresco", 10)
	engine := newTestEngine(db)

	const attempts = 25

	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := engine.Post(ctx, posting.Request{
				Kind: posting.KindSale,
				Lines: []posting.Line{
					{ProductID: p1, Quantity: 1, UnitPrice: types.MustMoney("4.75")},
				},
			}, newMemStore(db))
			results[n] = err
		}(i)
	}
	wg.Wait()

	committed := 0
	insufficient := 0
	for _, err := range results {
		switch {
		case err == nil:
			committed++
		case apperror.IsInsufficientStock(err):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 10, committed)
	assert.Equal(t, attempts-10, insufficient)
	assert.Equal(t, int64(0), db.quantity(t, p1))
}
