package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"tienda/internal/core/id"
	"tienda/internal/domain/audit"
)

const auditTable = "audit_log"

// compressThreshold: change payloads under this size are stored as plain
// JSON; larger payloads are zstd-compressed.
const compressThreshold = 10 * 1024

// AuditStore persists audit entries; implements audit.Recorder.
// Large change snapshots are compressed with zstd.
type AuditStore struct {
	txManager *TxManager
	encoder   *zstd.Encoder
}

var _ audit.Recorder = (*AuditStore)(nil)

// NewAuditStore creates a new audit store.
func NewAuditStore(txManager *TxManager) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	return &AuditStore{
		txManager: txManager,
		encoder:   encoder,
	}, nil
}

// Record implements audit.Recorder.
func (s *AuditStore) Record(ctx context.Context, entry audit.Entry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	var plain json.RawMessage
	var compressed []byte
	algo := "none"
	if len(changes) > compressThreshold {
		compressed = s.encoder.EncodeAll(changes, nil)
		algo = "zstd"
	} else {
		plain = changes
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(auditTable).
		Columns("id", "entity_type", "entity_id", "action", "user_id",
			"changes", "changes_compressed", "compression_algo", "created_at").
		Values(id.New(), entry.EntityType, entry.EntityID, string(entry.Action), entry.UserID,
			plain, compressed, algo, time.Now().UTC())

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	querier := s.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}
