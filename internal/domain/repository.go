// Package domain provides types shared by the document and catalog packages.
package domain

import (
	"time"
)

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches the document number (or item code/name for catalogs)
	Search string

	// DateFrom and DateTo bound the business date, inclusive
	DateFrom *time.Time
	DateTo   *time.Time

	// OrderBy specifies sorting (e.g., "date", "-number")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "-date",
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
