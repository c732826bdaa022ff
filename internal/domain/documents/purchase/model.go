// Package purchase provides the Purchase document (stock-in).
package purchase

import (
	"context"

	"tienda/internal/core/apperror"
	"tienda/internal/core/entity"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain/posting"
)

// Purchase records incoming goods from a supplier.
// Created atomically with its lines by the posting engine; immutable after.
type Purchase struct {
	entity.Document

	// Supplier is the counterparty name
	Supplier string `db:"supplier" json:"supplier"`

	// Table part: purchased goods
	Lines []Line `db:"-" json:"lines"`
}

// Line is one purchased item. Immutable once created.
type Line struct {
	LineID    id.ID       `db:"line_id" json:"lineId"`
	LineNo    int         `db:"line_no" json:"lineNo"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewPurchase creates a new purchase document header.
func NewPurchase(supplier, createdBy string) *Purchase {
	return &Purchase{
		Document: entity.NewDocument(createdBy),
		Supplier: supplier,
		Lines:    make([]Line, 0),
	}
}

// AddLine appends a line and recomputes the accumulated total.
// The persisted total is still written by the posting engine.
func (p *Purchase) AddLine(productID id.ID, quantity int64, unitPrice types.Money) {
	p.Lines = append(p.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(p.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	p.recalculateTotal()
}

func (p *Purchase) recalculateTotal() {
	total := types.Zero()
	for _, line := range p.Lines {
		total = total.Add(types.LineSubtotal(line.Quantity, line.UnitPrice))
	}
	p.Total = total
}

// PostingLines converts the table part for the posting engine,
// preserving submitted order.
func (p *Purchase) PostingLines() []posting.Line {
	lines := make([]posting.Line, len(p.Lines))
	for i, line := range p.Lines {
		lines[i] = posting.Line{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return lines
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if p.Supplier == "" {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplier")
	}

	if len(p.Lines) == 0 {
		return apperror.NewEmptyDocument()
	}

	return nil
}
