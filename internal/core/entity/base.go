// Package entity provides the shared field sets embedded by all domain types.
package entity

import (
	"context"
	"time"

	"tienda/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// Base contains the fields common to every persisted entity:
// primary key and creation/modification timestamps.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	ModifiedAt time.Time `db:"modified_at" json:"modifiedAt"`
}

// NewBase creates a Base with generated ID and timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:         id.New(),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Touch updates the ModifiedAt timestamp.
func (b *Base) Touch() {
	b.ModifiedAt = time.Now().UTC()
}
