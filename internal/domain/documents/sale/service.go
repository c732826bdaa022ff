package sale

import (
	"context"
	"fmt"

	"tienda/internal/core/id"
	"tienda/internal/core/security"
	"tienda/internal/core/tx"
	"tienda/internal/core/types"
	"tienda/internal/domain"
	"tienda/internal/domain/audit"
	"tienda/internal/domain/posting"
	"tienda/pkg/logger"
)

// Service provides business operations for sale documents.
type Service struct {
	repo   Repository
	engine *posting.Engine
	audit  audit.Recorder
	txm    tx.ReadOnlyManager
}

// NewService creates a new sale service.
func NewService(repo Repository, engine *posting.Engine, recorder audit.Recorder, txm tx.ReadOnlyManager) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		audit:  recorder,
		txm:    txm,
	}
}

// postingStore adapts the repository to the engine's Store contract
// for one document.
type postingStore struct {
	repo Repository
	doc  *Sale
}

func (s *postingStore) DocumentID() id.ID { return s.doc.ID }

func (s *postingStore) InsertHeader(ctx context.Context) error {
	return s.repo.Create(ctx, s.doc)
}

func (s *postingStore) InsertLine(ctx context.Context, lineNo int, _ posting.Line) error {
	return s.repo.InsertLine(ctx, s.doc.ID, s.doc.Lines[lineNo-1])
}

func (s *postingStore) SetTotal(ctx context.Context, total types.Money) error {
	s.doc.Total = total
	return s.repo.SetTotal(ctx, s.doc.ID, total)
}

// Post atomically creates the sale with its lines and applies the stock
// decreases. Insufficient stock on any line rolls everything back.
func (s *Service) Post(ctx context.Context, doc *Sale) (posting.Result, error) {
	if err := doc.Validate(ctx); err != nil {
		return posting.Result{Status: posting.StatusRejected}, err
	}

	if doc.CreatedBy == "" {
		doc.CreatedBy = security.GetUserID(ctx)
	}

	req := posting.Request{
		Kind:  posting.KindSale,
		Lines: doc.PostingLines(),
	}

	res, err := s.engine.Post(ctx, req, &postingStore{repo: s.repo, doc: doc})
	if err != nil {
		return res, err
	}

	if recErr := s.audit.Record(ctx, audit.Entry{
		EntityType: "sale",
		EntityID:   doc.ID,
		Action:     audit.ActionPost,
		UserID:     doc.CreatedBy,
		Changes:    doc,
	}); recErr != nil {
		logger.Warn(ctx, "audit record failed", "document_id", doc.ID, "error", recErr)
	}

	return res, nil
}

// GetByID retrieves a sale with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	var doc *Sale
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		lines, err := s.repo.GetLines(ctx, docID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		doc.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}
