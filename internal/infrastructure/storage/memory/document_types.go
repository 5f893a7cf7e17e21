package memory

import (
	"context"

	"millstock/internal/domain"
	"millstock/internal/domain/documents/gate_inward"
	"millstock/internal/domain/documents/inward_internal"
	"millstock/internal/domain/documents/issue_note"
	"millstock/internal/domain/documents/outward_challan"
)

// GateInwardRepo implements gate_inward.Repository.
type GateInwardRepo struct {
	*DocumentStore[*gate_inward.GateInward]
}

// NewGateInwardRepo creates an empty gate inward store.
func NewGateInwardRepo() *GateInwardRepo {
	return &GateInwardRepo{NewDocumentStore("gate inward", (*gate_inward.GateInward).Clone)}
}

func (r *GateInwardRepo) List(ctx context.Context, filter gate_inward.ListFilter) (domain.ListResult[*gate_inward.GateInward], error) {
	return r.list(ctx, filter.ListFilter, func(d *gate_inward.GateInward) bool {
		return filter.SupplierID == nil || d.SupplierID == *filter.SupplierID
	}), nil
}

// IssueNoteRepo implements issue_note.Repository.
type IssueNoteRepo struct {
	*DocumentStore[*issue_note.IssueNote]
}

// NewIssueNoteRepo creates an empty issue note store.
func NewIssueNoteRepo() *IssueNoteRepo {
	return &IssueNoteRepo{NewDocumentStore("issue note", (*issue_note.IssueNote).Clone)}
}

func (r *IssueNoteRepo) List(ctx context.Context, filter issue_note.ListFilter) (domain.ListResult[*issue_note.IssueNote], error) {
	return r.list(ctx, filter.ListFilter, func(d *issue_note.IssueNote) bool {
		return filter.Department == "" || d.Department == filter.Department
	}), nil
}

// InwardInternalRepo implements inward_internal.Repository.
type InwardInternalRepo struct {
	*DocumentStore[*inward_internal.InwardInternal]
}

// NewInwardInternalRepo creates an empty internal inward store.
func NewInwardInternalRepo() *InwardInternalRepo {
	return &InwardInternalRepo{NewDocumentStore("inward internal", (*inward_internal.InwardInternal).Clone)}
}

func (r *InwardInternalRepo) List(ctx context.Context, filter inward_internal.ListFilter) (domain.ListResult[*inward_internal.InwardInternal], error) {
	return r.list(ctx, filter.ListFilter, func(d *inward_internal.InwardInternal) bool {
		return filter.Department == "" || d.Department == filter.Department
	}), nil
}

// OutwardChallanRepo implements outward_challan.Repository.
type OutwardChallanRepo struct {
	*DocumentStore[*outward_challan.OutwardChallan]
}

// NewOutwardChallanRepo creates an empty challan store.
func NewOutwardChallanRepo() *OutwardChallanRepo {
	return &OutwardChallanRepo{NewDocumentStore("outward challan", (*outward_challan.OutwardChallan).Clone)}
}

func (r *OutwardChallanRepo) List(ctx context.Context, filter outward_challan.ListFilter) (domain.ListResult[*outward_challan.OutwardChallan], error) {
	return r.list(ctx, filter.ListFilter, func(d *outward_challan.OutwardChallan) bool {
		return filter.PartyID == nil || d.PartyID == *filter.PartyID
	}), nil
}

var (
	_ gate_inward.Repository     = (*GateInwardRepo)(nil)
	_ issue_note.Repository      = (*IssueNoteRepo)(nil)
	_ inward_internal.Repository = (*InwardInternalRepo)(nil)
	_ outward_challan.Repository = (*OutwardChallanRepo)(nil)
)
