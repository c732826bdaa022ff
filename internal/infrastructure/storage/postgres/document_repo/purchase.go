package document_repo

import (
	"tienda/internal/domain/documents/purchase"
	"tienda/internal/infrastructure/storage/postgres"
)

// PurchaseRepo is the PostgreSQL implementation of purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase, purchase.Line]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*purchase.Purchase, purchase.Line](
			txManager,
			"purchases",
			"purchase_lines",
			func() *purchase.Purchase { return &purchase.Purchase{} },
		),
	}
}
