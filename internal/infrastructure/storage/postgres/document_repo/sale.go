package document_repo

import (
	"tienda/internal/domain/documents/sale"
	"tienda/internal/infrastructure/storage/postgres"
)

// SaleRepo is the PostgreSQL implementation of sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale, sale.Line]
}

var _ sale.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sale.Sale, sale.Line](
			txManager,
			"sales",
			"sale_lines",
			func() *sale.Sale { return &sale.Sale{} },
		),
	}
}
