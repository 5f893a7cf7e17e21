package handlers

import (
	"github.com/gin-gonic/gin"

	"millstock/internal/core/apperror"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain"
	"millstock/internal/domain/documents/gate_inward"
	"millstock/internal/domain/documents/inward_internal"
	"millstock/internal/domain/documents/issue_note"
	"millstock/internal/domain/documents/outward_challan"
	"millstock/internal/infrastructure/http/v1/dto"
)

// GateInwardHandler serves /gate-inwards.
type GateInwardHandler = DocumentHandler[*gate_inward.GateInward, dto.GateInwardRequest]

// NewGateInwardHandler creates a gate inward handler.
func NewGateInwardHandler(base *BaseHandler, svc *gate_inward.Service) *GateInwardHandler {
	return NewDocumentHandler(base, DocumentHandlerConfig[*gate_inward.GateInward, dto.GateInwardRequest]{
		Service:  svc,
		ToEntity: (*dto.GateInwardRequest).ToEntity,
		Header:   func(d *gate_inward.GateInward) *entity.Document { return &d.Document },
		List: func(c *gin.Context, base domain.ListFilter) (any, error) {
			supplierID, err := optionalID(c, "supplierId")
			if err != nil {
				return nil, err
			}
			res, err := svc.List(c.Request.Context(), gate_inward.ListFilter{ListFilter: base, SupplierID: supplierID})
			if err != nil {
				return nil, err
			}
			return dto.FromListResult(res), nil
		},
	})
}

// IssueNoteHandler serves /issue-notes.
type IssueNoteHandler = DocumentHandler[*issue_note.IssueNote, dto.IssueNoteRequest]

// NewIssueNoteHandler creates an issue note handler.
func NewIssueNoteHandler(base *BaseHandler, svc *issue_note.Service) *IssueNoteHandler {
	return NewDocumentHandler(base, DocumentHandlerConfig[*issue_note.IssueNote, dto.IssueNoteRequest]{
		Service:  svc,
		ToEntity: (*dto.IssueNoteRequest).ToEntity,
		Header:   func(d *issue_note.IssueNote) *entity.Document { return &d.Document },
		List: func(c *gin.Context, base domain.ListFilter) (any, error) {
			res, err := svc.List(c.Request.Context(), issue_note.ListFilter{ListFilter: base, Department: c.Query("department")})
			if err != nil {
				return nil, err
			}
			return dto.FromListResult(res), nil
		},
	})
}

// InwardInternalHandler serves /inward-internals.
type InwardInternalHandler = DocumentHandler[*inward_internal.InwardInternal, dto.InwardInternalRequest]

// NewInwardInternalHandler creates an inward internal handler.
func NewInwardInternalHandler(base *BaseHandler, svc *inward_internal.Service) *InwardInternalHandler {
	return NewDocumentHandler(base, DocumentHandlerConfig[*inward_internal.InwardInternal, dto.InwardInternalRequest]{
		Service:  svc,
		ToEntity: (*dto.InwardInternalRequest).ToEntity,
		Header:   func(d *inward_internal.InwardInternal) *entity.Document { return &d.Document },
		List: func(c *gin.Context, base domain.ListFilter) (any, error) {
			res, err := svc.List(c.Request.Context(), inward_internal.ListFilter{ListFilter: base, Department: c.Query("department")})
			if err != nil {
				return nil, err
			}
			return dto.FromListResult(res), nil
		},
	})
}

// OutwardChallanHandler serves /outward-challans.
type OutwardChallanHandler = DocumentHandler[*outward_challan.OutwardChallan, dto.OutwardChallanRequest]

// NewOutwardChallanHandler creates an outward challan handler.
func NewOutwardChallanHandler(base *BaseHandler, svc *outward_challan.Service) *OutwardChallanHandler {
	return NewDocumentHandler(base, DocumentHandlerConfig[*outward_challan.OutwardChallan, dto.OutwardChallanRequest]{
		Service:  svc,
		ToEntity: (*dto.OutwardChallanRequest).ToEntity,
		Header:   func(d *outward_challan.OutwardChallan) *entity.Document { return &d.Document },
		List: func(c *gin.Context, base domain.ListFilter) (any, error) {
			partyID, err := optionalID(c, "partyId")
			if err != nil {
				return nil, err
			}
			res, err := svc.List(c.Request.Context(), outward_challan.ListFilter{ListFilter: base, PartyID: partyID})
			if err != nil {
				return nil, err
			}
			return dto.FromListResult(res), nil
		},
	})
}

func optionalID(c *gin.Context, key string) (*id.ID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := id.Parse(raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + key + " format").WithDetail("field", key)
	}
	return &parsed, nil
}
