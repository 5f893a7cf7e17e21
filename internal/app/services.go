// Package app wires repositories into the ledger, the posting engine and the
// document services. Both the HTTP server and the seed command build their
// service graph through NewServices.
package app

import (
	"millstock/internal/core/numerator"
	"millstock/internal/core/tx"
	"millstock/internal/domain/catalogs/item"
	"millstock/internal/domain/documents"
	"millstock/internal/domain/documents/gate_inward"
	"millstock/internal/domain/documents/inward_internal"
	"millstock/internal/domain/documents/issue_note"
	"millstock/internal/domain/documents/outward_challan"
	"millstock/internal/domain/posting"
	"millstock/internal/domain/registers/stock"
	"millstock/internal/infrastructure/storage/memory"
	"millstock/internal/infrastructure/storage/postgres"
	"millstock/internal/infrastructure/storage/postgres/catalog_repo"
	"millstock/internal/infrastructure/storage/postgres/document_repo"
	"millstock/internal/infrastructure/storage/postgres/register_repo"
)

// Repositories is one storage backend.
type Repositories struct {
	TxManager tx.Manager

	Items           item.Repository
	Stock           stock.Repository
	GateInwards     gate_inward.Repository
	IssueNotes      issue_note.Repository
	InwardInternals inward_internal.Repository
	OutwardChallans outward_challan.Repository
}

// MemoryRepositories exposes an in-memory store as Repositories.
func MemoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		TxManager:       s.TxManager,
		Items:           s.Items,
		Stock:           s.Stock,
		GateInwards:     s.GateInwards,
		IssueNotes:      s.IssueNotes,
		InwardInternals: s.InwardInternals,
		OutwardChallans: s.OutwardChallans,
	}
}

// PostgresRepositories builds the PostgreSQL repositories over txm.
func PostgresRepositories(txm *postgres.TxManager) Repositories {
	return Repositories{
		TxManager:       txm,
		Items:           catalog_repo.NewItemRepo(txm),
		Stock:           register_repo.NewStockRepo(txm),
		GateInwards:     document_repo.NewGateInwardRepo(txm),
		IssueNotes:      document_repo.NewIssueNoteRepo(txm),
		InwardInternals: document_repo.NewInwardInternalRepo(txm),
		OutwardChallans: document_repo.NewOutwardChallanRepo(txm),
	}
}

// Options tune the service graph. Zero value is valid.
type Options struct {
	StockRecorder    stock.Recorder
	DocumentRecorder documents.Recorder

	// DefaultUOM is stored on floor entries opened by the ledger.
	DefaultUOM string

	// NumberPadWidth overrides the document number padding.
	NumberPadWidth int
}

// Services is the full service graph.
type Services struct {
	Stock  *stock.Service
	Engine *posting.Engine
	Items  *item.Service

	GateInwards     *gate_inward.Service
	IssueNotes      *issue_note.Service
	InwardInternals *inward_internal.Service
	OutwardChallans *outward_challan.Service
}

// NewServices builds every service over repos.
func NewServices(repos Repositories, numbers numerator.Generator, opts Options) *Services {
	ledger := stock.NewService(repos.Stock, repos.Items,
		stock.WithDefaultUOM(opts.DefaultUOM),
		stock.WithRecorder(opts.StockRecorder),
	)
	engine := posting.NewEngine(ledger, repos.Items)

	deps := documents.Deps{
		Engine:    engine,
		Numbers:   numbers,
		TxManager: repos.TxManager,
		Recorder:  opts.DocumentRecorder,
		PadWidth:  opts.NumberPadWidth,
	}

	return &Services{
		Stock:  ledger,
		Engine: engine,
		Items:  item.NewService(repos.Items, ledger, repos.TxManager),

		GateInwards:     gate_inward.NewService(repos.GateInwards, deps),
		IssueNotes:      issue_note.NewService(repos.IssueNotes, deps),
		InwardInternals: inward_internal.NewService(repos.InwardInternals, deps),
		OutwardChallans: outward_challan.NewService(repos.OutwardChallans, deps),
	}
}
