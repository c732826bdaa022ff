// Package audit defines the port for the posting audit trail.
package audit

import (
	"context"

	"tienda/internal/core/id"
)

// Action is the type of audited operation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionPost   Action = "post"
)

// Entry is a single audit record. Changes holds an arbitrary snapshot
// (document lines, totals); the store serializes and compresses it.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	UserID     string
	Changes    any
}

// Recorder persists audit entries. Recording is best-effort: callers log
// failures but never fail the business operation over them.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
