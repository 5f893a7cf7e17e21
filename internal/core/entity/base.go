package entity

import (
	"context"
	"time"

	"millstock/internal/core/id"
)

// Validatable is implemented by items and documents that can check their own
// invariants before touching storage.
type Validatable interface {
	// Validate returns nil or a VALIDATION_ERROR AppError naming the field.
	Validate(ctx context.Context) error
}

// BaseEntity carries the identity and optimistic-lock version of a row.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`

	// Version starts at 1 and is bumped by the store on every update.
	Version int `db:"version" json:"version"`
}

// NewBaseEntity creates a BaseEntity with a fresh UUIDv7.
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: id.New(), Version: 1}
}

// Audit records who created and last amended a document, and when.
type Audit struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// StampCreated records the creating operator.
func (a *Audit) StampCreated(userID string) {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	a.CreatedBy, a.UpdatedBy = userID, userID
}

// StampUpdated records the amending operator and keeps the creation fields of prev.
func (a *Audit) StampUpdated(prev Audit, userID string) {
	a.CreatedAt = prev.CreatedAt
	a.CreatedBy = prev.CreatedBy
	a.UpdatedAt = time.Now().UTC()
	a.UpdatedBy = userID
}
