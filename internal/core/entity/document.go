package entity

import (
	"tienda/internal/core/types"
)

// Document is the base type for ledger documents (purchases, sales).
// Documents are created atomically with their lines and are immutable
// once posted; Total is always derived from the lines.
type Document struct {
	Base

	// Total equals the sum of line subtotals. Written by the posting
	// engine, never settable independently.
	Total types.Money `db:"total" json:"total"`

	// CreatedBy is the acting user identity supplied by the caller
	CreatedBy string `db:"created_by" json:"createdBy"`
}

// NewDocument creates a new Document header with zero total.
func NewDocument(createdBy string) Document {
	return Document{
		Base:      NewBase(),
		Total:     types.Zero(),
		CreatedBy: createdBy,
	}
}
