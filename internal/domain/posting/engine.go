// Package posting implements the order-posting engine: atomic creation of a
// purchase or sale document together with its lines and stock effects.
package posting

import (
	"bytes"
	"context"
	"sort"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/tx"
	"tienda/internal/core/types"
	"tienda/internal/domain/catalogs/product"
	"tienda/pkg/logger"
)

// Kind distinguishes the two document types.
type Kind string

const (
	// KindPurchase is stock-in: each line increases product quantity.
	KindPurchase Kind = "purchase"

	// KindSale is stock-out: each line decreases product quantity and
	// must pass the availability check first.
	KindSale Kind = "sale"
)

// stockDelta returns the signed stock change for a line quantity.
func (k Kind) stockDelta(quantity int64) int64 {
	if k == KindSale {
		return -quantity
	}
	return quantity
}

// Status of a posting request. Committed, Aborted and Rejected are terminal.
type Status string

const (
	StatusCommitted Status = "committed"
	StatusAborted   Status = "aborted"
	StatusRejected  Status = "rejected"
)

// Line is one product/quantity/price entry of the document being posted.
// UnitPrice is a snapshot taken at posting time, independent of the
// product's catalog price.
type Line struct {
	ProductID id.ID
	Quantity  int64
	UnitPrice types.Money
}

// Request describes a document to post. Lines keep their submitted order.
type Request struct {
	Kind  Kind
	Lines []Line
}

// Result of a committed posting.
type Result struct {
	DocumentID id.ID
	Total      types.Money
	Status     Status
}

// Store persists the document being posted. Implemented by thin adapters
// over the purchase and sale repositories; every call happens inside the
// engine's transaction.
type Store interface {
	// DocumentID returns the id of the header being written.
	DocumentID() id.ID

	// InsertHeader writes the document header with zero total.
	InsertHeader(ctx context.Context) error

	// InsertLine writes one line. lineNo is 1-based submitted order.
	InsertLine(ctx context.Context, lineNo int, line Line) error

	// SetTotal writes the final total onto the header.
	SetTotal(ctx context.Context, total types.Money) error
}

// Products is the slice of the product repository the engine needs.
type Products interface {
	GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error)
	AdjustStock(ctx context.Context, productID id.ID, delta int64) (*product.Product, error)
}

// Engine orchestrates atomic document posting.
//
// A posting either commits in full (header, every line, every stock delta,
// final total) or leaves no persisted state at all.
type Engine struct {
	products  Products
	txManager tx.Manager
}

// NewEngine creates a posting engine.
func NewEngine(products Products, txManager tx.Manager) *Engine {
	return &Engine{
		products:  products,
		txManager: txManager,
	}
}

// Post validates the request, then runs the posting transaction.
//
// Validation failures reject the request before any transaction is opened.
// Inside the transaction the affected product rows are locked first, in
// product-id order, so that two documents with overlapping product sets
// always acquire locks in the same sequence. Lines are then processed in
// submitted order against the locked in-transaction state, so a document
// referencing the same product twice has the second line see the first
// line's depletion.
func (e *Engine) Post(ctx context.Context, req Request, store Store) (Result, error) {
	if err := validate(req); err != nil {
		return Result{Status: StatusRejected}, err
	}

	total := types.Zero()

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := store.InsertHeader(ctx); err != nil {
			return err
		}

		locked, err := e.lockProducts(ctx, req.Lines)
		if err != nil {
			return err
		}

		for i, line := range req.Lines {
			p := locked[line.ProductID]

			if req.Kind == KindSale && p.Quantity < line.Quantity {
				return apperror.NewInsufficientStock(p.Name, line.Quantity, p.Quantity)
			}

			total = total.Add(types.LineSubtotal(line.Quantity, line.UnitPrice))

			if err := store.InsertLine(ctx, i+1, line); err != nil {
				return err
			}

			delta := req.Kind.stockDelta(line.Quantity)
			if _, err := e.products.AdjustStock(ctx, p.ID, delta); err != nil {
				return err
			}

			// Keep the in-transaction view current for later lines
			// referencing the same product.
			p.Quantity += delta
		}

		return store.SetTotal(ctx, total)
	})

	if err != nil {
		logger.Warn(ctx, "posting aborted",
			"kind", string(req.Kind),
			"document_id", store.DocumentID(),
			"error", err,
		)
		if !apperror.IsAppError(err) {
			// Infrastructure fault: surfaced as a generic persistence
			// failure, never retried here.
			err = apperror.NewDatabase(err)
		}
		return Result{Status: StatusAborted}, err
	}

	logger.Info(ctx, "document posted",
		"kind", string(req.Kind),
		"document_id", store.DocumentID(),
		"lines", len(req.Lines),
		"total", total.String(),
	)

	return Result{
		DocumentID: store.DocumentID(),
		Total:      total,
		Status:     StatusCommitted,
	}, nil
}

// lockProducts acquires row locks on every distinct referenced product,
// in product-id order, and returns the locked rows keyed by id.
func (e *Engine) lockProducts(ctx context.Context, lines []Line) (map[id.ID]*product.Product, error) {
	distinct := make([]id.ID, 0, len(lines))
	seen := make(map[id.ID]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		distinct = append(distinct, line.ProductID)
	}

	sort.Slice(distinct, func(i, j int) bool {
		return bytes.Compare(distinct[i][:], distinct[j][:]) < 0
	})

	locked := make(map[id.ID]*product.Product, len(distinct))
	for _, productID := range distinct {
		p, err := e.products.GetForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		locked[productID] = p
	}

	return locked, nil
}

// validate re-checks structural invariants before any state is touched,
// even when an upstream layer already validated the input.
func validate(req Request) error {
	if req.Kind != KindPurchase && req.Kind != KindSale {
		return apperror.NewValidation("unknown document kind").
			WithDetail("kind", string(req.Kind))
	}

	if len(req.Lines) == 0 {
		return apperror.NewEmptyDocument()
	}

	for i, line := range req.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewInvalidLine(i+1, "product is required")
		}
		if line.Quantity <= 0 {
			return apperror.NewInvalidLine(i+1, "quantity must be a positive integer")
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewInvalidLine(i+1, "unit price cannot be negative")
		}
	}

	return nil
}
