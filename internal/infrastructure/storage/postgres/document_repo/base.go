// Package document_repo provides PostgreSQL implementations for document
// repositories (purchases, sales).
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tienda/internal/core/apperror"
	"tienda/internal/core/id"
	"tienda/internal/core/types"
	"tienda/internal/domain"
	"tienda/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo provides common persistence for document headers and
// their line tables. T is the header type, L the line type.
//
// Header mutation is limited to SetTotal; documents are immutable once
// posted.
type BaseDocumentRepo[T any, L any] struct {
	txManager  *postgres.TxManager
	tableName  string
	lineTable  string
	headerCols []string
	lineCols   []string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any, L any](
	txManager *postgres.TxManager,
	tableName string,
	lineTable string,
	newFn func() T,
) *BaseDocumentRepo[T, L] {
	return &BaseDocumentRepo[T, L]{
		txManager:  txManager,
		tableName:  tableName,
		lineTable:  lineTable,
		headerCols: postgres.ExtractDBColumns[T](),
		lineCols:   postgres.ExtractDBColumns[L](),
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseDocumentRepo[T, L]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the active transaction querier or the pool.
func (r *BaseDocumentRepo[T, L]) Querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts the document header.
func (r *BaseDocumentRepo[T, L]) Create(ctx context.Context, doc T) error {
	data := postgres.StructToMap(doc)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in document")
	}

	filteredData := make(map[string]any, len(r.headerCols))
	for _, col := range r.headerCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(r.tableName).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}

	return nil
}

// InsertLine writes one line row bound to the document.
func (r *BaseDocumentRepo[T, L]) InsertLine(ctx context.Context, docID id.ID, line L) error {
	data := postgres.StructToMap(line)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in line")
	}

	filteredData := make(map[string]any, len(r.lineCols)+1)
	for _, col := range r.lineCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}
	filteredData["document_id"] = docID

	q := r.Builder().
		Insert(r.lineTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build line insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", r.lineTable, err)
	}

	return nil
}

// SetTotal writes the accumulated document total.
func (r *BaseDocumentRepo[T, L]) SetTotal(ctx context.Context, docID id.ID, total types.Money) error {
	q := r.Builder().
		Update(r.tableName).
		Set("total", total).
		Set("modified_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set total: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, docID.String())
	}

	return nil
}

// GetByID retrieves a document header.
func (r *BaseDocumentRepo[T, L]) GetByID(ctx context.Context, docID id.ID) (T, error) {
	doc := r.newFn()

	q := r.Builder().
		Select(r.headerCols...).
		From(r.tableName).
		Where(squirrel.Eq{"id": docID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return doc, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return doc, apperror.NewNotFound(r.tableName, docID.String())
		}
		return doc, fmt.Errorf("get by id: %w", err)
	}

	return doc, nil
}

// GetLines retrieves the document's lines in line order.
func (r *BaseDocumentRepo[T, L]) GetLines(ctx context.Context, docID id.ID) ([]L, error) {
	q := r.Builder().
		Select(r.lineCols...).
		From(r.lineTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := []L{}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// List retrieves document headers with pagination, newest first by default.
func (r *BaseDocumentRepo[T, L]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Items:  []T{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.Builder().
		Select(r.headerCols...).
		From(r.tableName)

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.Querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list: %w", err)
	}

	return result, nil
}

func (r *BaseDocumentRepo[T, L]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "created_at DESC", nil
	}

	parts := strings.Fields(orderBy)
	if len(parts) == 0 || len(parts) > 2 {
		return "", apperror.NewValidation("invalid order by expression").
			WithDetail("orderBy", orderBy)
	}

	col := parts[0]
	valid := false
	for _, c := range r.headerCols {
		if c == col {
			valid = true
			break
		}
	}
	if !valid {
		return "", apperror.NewValidation("invalid order by column").
			WithDetail("column", col)
	}

	if len(parts) == 2 {
		dir := strings.ToUpper(parts[1])
		if dir != "ASC" && dir != "DESC" {
			return "", apperror.NewValidation("invalid order by direction").
				WithDetail("direction", parts[1])
		}
		return col + " " + dir, nil
	}

	return col, nil
}
