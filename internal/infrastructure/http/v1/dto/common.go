// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/core/types"
	"millstock/internal/domain"
)

// --- Dates ---

// Date accepts "2006-01-02" or RFC 3339 and renders as "2006-01-02".
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(time.DateOnly))
}

// Ptr returns nil for a zero date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// --- Lists ---

// ListQuery holds the query parameters shared by every list endpoint.
type ListQuery struct {
	Search   string `form:"search"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
	OrderBy  string `form:"orderBy"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query to a domain filter.
func (q ListQuery) ToFilter() (domain.ListFilter, error) {
	f := domain.DefaultListFilter()
	f.Search = q.Search
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	f.Offset = q.Offset

	var err error
	if f.DateFrom, err = parseQueryDate("dateFrom", q.DateFrom); err != nil {
		return f, err
	}
	if f.DateTo, err = parseQueryDate("dateTo", q.DateTo); err != nil {
		return f, err
	}
	return f, nil
}

func parseQueryDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apperror.NewValidation("invalid date, expected YYYY-MM-DD").WithDetail("field", field)
	}
	return &t, nil
}

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// FromListResult converts a domain list result.
func FromListResult[T any](r domain.ListResult[T]) ListResponse[T] {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, TotalCount: r.TotalCount, Limit: r.Limit, Offset: r.Offset}
}

// --- Lines ---

// LineRequest is one item/quantity entry of a document request.
type LineRequest struct {
	ItemID   string           `json:"itemId" binding:"required,uuid"`
	Quantity types.Quantity   `json:"quantity"`
	UnitRate *decimal.Decimal `json:"unitRate,omitempty"`
	UOM      string           `json:"uom,omitempty" binding:"omitempty,max=16"`
	Remark   string           `json:"remark,omitempty"`
}

// ToLine converts the request line. Missing rate means zero; the amount is
// derived when the document is normalized.
func (r LineRequest) ToLine() entity.Line {
	itemID, _ := id.Parse(r.ItemID)
	line := entity.Line{
		ItemID:   itemID,
		Quantity: r.Quantity,
		UnitRate: types.ZeroRate(),
		UOM:      r.UOM,
		Remark:   r.Remark,
	}
	if r.UnitRate != nil {
		line.UnitRate = *r.UnitRate
	}
	return line
}

// ToLines converts a group of request lines.
func ToLines(reqs []LineRequest) []entity.Line {
	lines := make([]entity.Line, len(reqs))
	for i, r := range reqs {
		lines[i] = r.ToLine()
	}
	return lines
}

// --- Responses ---

// DocumentRefResponse is returned by create and update.
type DocumentRefResponse struct {
	ID      string `json:"id"`
	Number  string `json:"number"`
	Version int    `json:"version"`
}

// NewDocumentRef builds the create/update response for a document header.
func NewDocumentRef(h *entity.Document) DocumentRefResponse {
	return DocumentRefResponse{ID: h.ID.String(), Number: h.Number, Version: h.Version}
}

// NumberResponse is returned by next-number previews.
type NumberResponse struct {
	Number string `json:"number"`
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
