// Package sale provides the Sale document (stock-out).
package sale

import (
	"context"

	"tienda/internal/core/apperror"
	"tienda/internal/core/entity"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain/posting"
)

// Sale records outgoing goods. Posting a sale depletes product stock and
// fails if any line exceeds the available in-transaction quantity.
type Sale struct {
	entity.Document

	// Table part: sold goods
	Lines []Line `db:"-" json:"lines"`
}

// Line is one sold item. Immutable once created.
type Line struct {
	LineID    id.ID       `db:"line_id" json:"lineId"`
	LineNo    int         `db:"line_no" json:"lineNo"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// NewSale creates a new sale document header.
func NewSale(createdBy string) *Sale {
	return &Sale{
		Document: entity.NewDocument(createdBy),
		Lines:    make([]Line, 0),
	}
}

// AddLine appends a line and recomputes the accumulated total.
// The persisted total is still written by the posting engine.
func (s *Sale) AddLine(productID id.ID, quantity int64, unitPrice types.Money) {
	s.Lines = append(s.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(s.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	s.recalculateTotal()
}

func (s *Sale) recalculateTotal() {
	total := types.Zero()
	for _, line := range s.Lines {
		total = total.Add(types.LineSubtotal(line.Quantity, line.UnitPrice))
	}
	s.Total = total
}

// PostingLines converts the table part for the posting engine,
// preserving submitted order.
func (s *Sale) PostingLines() []posting.Line {
	lines := make([]posting.Line, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = posting.Line{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return lines
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if len(s.Lines) == 0 {
		return apperror.NewEmptyDocument()
	}
	return nil
}
