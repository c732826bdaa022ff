package dto

import (
	"time"

	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain/documents/purchase"
)

// DocumentLineRequest is one line of a document being posted.
type DocumentLineRequest struct {
	ProductID string      `json:"productId" binding:"required,uuid"`
	Quantity  int64       `json:"quantity" binding:"required,min=1"`
	UnitPrice types.Money `json:"unitPrice"`
}

// DocumentLineResponse is one persisted document line.
type DocumentLineResponse struct {
	LineID    string      `json:"lineId"`
	LineNo    int         `json:"lineNo"`
	ProductID string      `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Subtotal  types.Money `json:"subtotal"`
}

// CreatePurchaseRequest for posting a purchase document.
type CreatePurchaseRequest struct {
	Supplier string                `json:"supplier" binding:"required"`
	Lines    []DocumentLineRequest `json:"lines" binding:"omitempty,dive"`
}

// ToEntity converts the request to a domain document.
// Line order is preserved as submitted.
func (r *CreatePurchaseRequest) ToEntity() *purchase.Purchase {
	doc := purchase.NewPurchase(r.Supplier, "")
	for _, line := range r.Lines {
		doc.AddLine(id.MustParse(line.ProductID), line.Quantity, line.UnitPrice)
	}
	return doc
}

// PostedDocumentResponse confirms a committed posting.
type PostedDocumentResponse struct {
	Mensaje    string      `json:"mensaje"`
	DocumentID string      `json:"documentId"`
	Total      types.Money `json:"total"`
}

// PurchaseResponse represents a purchase document with its lines.
type PurchaseResponse struct {
	ID        string                 `json:"id"`
	Supplier  string                 `json:"supplier"`
	Total     types.Money            `json:"total"`
	CreatedBy string                 `json:"createdBy,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	Lines     []DocumentLineResponse `json:"lines"`
}

// FromPurchase creates PurchaseResponse from domain entity.
func FromPurchase(doc *purchase.Purchase) PurchaseResponse {
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
	return PurchaseResponse{
		ID:        doc.ID.String(),
		Supplier:  doc.Supplier,
		Total:     doc.Total,
		CreatedBy: doc.CreatedBy,
		CreatedAt: doc.CreatedAt,
		Lines:     lines,
	}
}
