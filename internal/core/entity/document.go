// Package entity provides the header and line shapes shared by all stock documents.
package entity

import (
	"context"
	"time"

	"millstock/internal/core/apperror"
	"millstock/internal/core/id"
)

// Document is the common header of a stock transaction document.
type Document struct {
	BaseEntity
	Audit

	// Number is the human-readable sequence number (GRN-001, ISS-014, ...)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`
}

// NewDocument creates a new Document dated today.
func NewDocument() Document {
	return Document{
		BaseEntity: NewBaseEntity(),
		Date:       time.Now().UTC().Truncate(24 * time.Hour),
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}

// Header returns the common header fields.
func (d *Document) Header() *Document { return d }

// GetID returns the document ID.
func (d *Document) GetID() id.ID { return d.ID }

// GetNumber returns the document number.
func (d *Document) GetNumber() string { return d.Number }

// SetNumber assigns the document number.
func (d *Document) SetNumber(number string) { d.Number = number }

// GetVersion returns the optimistic-lock version.
func (d *Document) GetVersion() int { return d.Version }

// StampUpdated carries the stored revision's version and creation audit
// fields over to d.
func (d *Document) StampUpdated(prev *Document, userID string) {
	d.Version = prev.Version
	d.Audit.StampUpdated(prev.Audit, userID)
}
