package dto

import (
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/domain/documents/gate_inward"
	"millstock/internal/domain/documents/inward_internal"
	"millstock/internal/domain/documents/issue_note"
	"millstock/internal/domain/documents/outward_challan"
)

// applyHeader copies the shared header fields. A zero date keeps today's date.
func applyHeader(h *entity.Document, docID id.ID, number string, date *Date, version int) {
	if !id.IsNil(docID) {
		h.ID = docID
	}
	h.Number = number
	if date != nil && !date.IsZero() {
		h.Date = date.Time
	}
	h.Version = version
}

// --- Gate Inward ---

// GateInwardRequest creates or replaces a gate inward (GRN).
type GateInwardRequest struct {
	GRNNumber    string        `json:"grnNumber,omitempty"`
	GRNDate      *Date         `json:"grnDate,omitempty"`
	SupplierID   string        `json:"supplierId" binding:"required,uuid"`
	BillNo       string        `json:"billNo,omitempty"`
	BillDate     *Date         `json:"billDate,omitempty"`
	PaymentTerms string        `json:"paymentTerms,omitempty"`
	Items        []LineRequest `json:"items" binding:"dive"`
	Version      int           `json:"version,omitempty"`
}

// ToEntity converts the request. docID is nil on create.
func (r *GateInwardRequest) ToEntity(docID id.ID) *gate_inward.GateInward {
	supplierID, _ := id.Parse(r.SupplierID)

	doc := gate_inward.NewGateInward(supplierID)
	applyHeader(&doc.Document, docID, r.GRNNumber, r.GRNDate, r.Version)
	doc.BillNo = r.BillNo
	doc.BillDate = r.BillDate.Ptr()
	doc.PaymentTerms = r.PaymentTerms
	doc.Lines = ToLines(r.Items)
	return doc
}

// --- Issue Note Internal ---

// IssueNoteRequest creates or replaces an internal issue note.
type IssueNoteRequest struct {
	IssueNo    string        `json:"issueNo,omitempty"`
	IssueDate  *Date         `json:"issueDate,omitempty"`
	Department string        `json:"department" binding:"required"`
	IssuedBy   string        `json:"issuedBy" binding:"required"`
	Items      []LineRequest `json:"items" binding:"dive"`
	Version    int           `json:"version,omitempty"`
}

// ToEntity converts the request. docID is nil on create.
func (r *IssueNoteRequest) ToEntity(docID id.ID) *issue_note.IssueNote {
	doc := issue_note.NewIssueNote(r.Department, r.IssuedBy)
	applyHeader(&doc.Document, docID, r.IssueNo, r.IssueDate, r.Version)
	doc.Lines = ToLines(r.Items)
	return doc
}

// --- Inward Internal ---

// InwardInternalRequest creates or replaces a production receipt.
type InwardInternalRequest struct {
	ReceiptNo     string        `json:"receiptNo,omitempty"`
	ReceivedDate  *Date         `json:"receivedDate,omitempty"`
	ReceivedBy    string        `json:"receivedBy" binding:"required"`
	Department    string        `json:"department,omitempty"`
	FinishedGoods []LineRequest `json:"finishedGoods" binding:"dive"`
	MaterialsUsed []LineRequest `json:"materialsUsed" binding:"dive"`
	Version       int           `json:"version,omitempty"`
}

// ToEntity converts the request. docID is nil on create.
func (r *InwardInternalRequest) ToEntity(docID id.ID) *inward_internal.InwardInternal {
	doc := inward_internal.NewInwardInternal(r.ReceivedBy)
	applyHeader(&doc.Document, docID, r.ReceiptNo, r.ReceivedDate, r.Version)
	doc.Department = r.Department
	doc.FinishedGoods = ToLines(r.FinishedGoods)
	doc.MaterialsUsed = ToLines(r.MaterialsUsed)
	return doc
}

// --- Outward Challan ---

// ChallanLineRequest adds the value-of-goods unit to a line.
type ChallanLineRequest struct {
	LineRequest
	ValueOfGoodsUOM string `json:"valueOfGoodsUom,omitempty"`
}

// OutwardChallanRequest creates or replaces an outward challan.
type OutwardChallanRequest struct {
	ChallanNo   string               `json:"challanNo,omitempty"`
	ChallanDate *Date                `json:"challanDate,omitempty"`
	PartyID     string               `json:"partyId" binding:"required,uuid"`
	Transport   string               `json:"transport,omitempty"`
	LRNo        string               `json:"lrNo,omitempty"`
	Remark      string               `json:"remark,omitempty"`
	Items       []ChallanLineRequest `json:"items" binding:"dive"`
	Version     int                  `json:"version,omitempty"`
}

// ToEntity converts the request. docID is nil on create.
func (r *OutwardChallanRequest) ToEntity(docID id.ID) *outward_challan.OutwardChallan {
	partyID, _ := id.Parse(r.PartyID)

	doc := outward_challan.NewOutwardChallan(partyID)
	applyHeader(&doc.Document, docID, r.ChallanNo, r.ChallanDate, r.Version)
	doc.Transport = r.Transport
	doc.LRNo = r.LRNo
	doc.Remark = r.Remark
	doc.Lines = make([]outward_challan.ChallanLine, len(r.Items))
	for i, item := range r.Items {
		doc.Lines[i] = outward_challan.ChallanLine{
			Line:            item.ToLine(),
			ValueOfGoodsUOM: item.ValueOfGoodsUOM,
		}
	}
	return doc
}
