package sale

import (
	"context"

	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain"
)

// Repository defines persistence operations for sale documents.
// Create, InsertLine and SetTotal are only ever called by the posting
// engine inside its transaction.
type Repository interface {
	Create(ctx context.Context, doc *Sale) error
	InsertLine(ctx context.Context, docID id.ID, line Line) error
	SetTotal(ctx context.Context, docID id.ID, total types.Money) error

	GetByID(ctx context.Context, docID id.ID) (*Sale, error)
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error)
}
