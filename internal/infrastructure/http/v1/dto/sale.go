package dto

import (
	"time"

	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain/documents/sale"
)

// CreateSaleRequest for posting a sale document.
type CreateSaleRequest struct {
	Lines []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ToEntity converts the request to a domain document.
// Line order is preserved as submitted.
func (r *CreateSaleRequest) ToEntity() *sale.Sale {
	doc := sale.NewSale("")
	for _, line := range r.Lines {
		doc.AddLine(id.MustParse(line.ProductID), line.Quantity, line.UnitPrice)
	}
	return doc
}

// SaleResponse represents a sale document with its lines.
type SaleResponse struct {
	ID        string                 `json:"id"`
	Total     types.Money            `json:"total"`
	CreatedBy string                 `json:"createdBy,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	Lines     []DocumentLineResponse `json:"lines"`
}

// FromSale creates SaleResponse from domain entity.
func FromSale(doc *sale.Sale) SaleResponse {
	lines := make([]DocumentLineResponse, len(doc.Lines))
	for i, line := range doc.Lines {
		lines[i] = DocumentLineResponse{
			LineID:    line.LineID.String(),
			LineNo:    line.LineNo,
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  types.LineSubtotal(line.Quantity, line.UnitPrice),
		}
	}
	return SaleResponse{
		ID:        doc.ID.String(),
		Total:     doc.Total,
		CreatedBy: doc.CreatedBy,
		CreatedAt: doc.CreatedAt,
		Lines:     lines,
	}
}
