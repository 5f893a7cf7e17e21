// Package documents holds the transaction processor shared by the four stock
// document types. Create, Update and Delete each run as one unit of work:
// reverse the stored revision (update, delete), validate the new lines,
// persist, then post the new movements.
package documents

import (
	"context"
	"fmt"

	"millstock/internal/core/apperror"
	appctx "millstock/internal/core/context"
	"millstock/internal/core/entity"
	"millstock/internal/core/id"
	"millstock/internal/core/numerator"
	"millstock/internal/core/tx"
	"millstock/internal/domain/posting"
	"millstock/pkg/logger"
)

// Document is a stock document the processor can drive.
type Document interface {
	posting.Postable
	entity.Validatable
	Header() *entity.Document
	LineCount() int
}

// Store is the document store collaborator: header plus lines as one aggregate.
type Store[D Document] interface {
	// Create inserts the header and all lines.
	Create(ctx context.Context, doc D) error

	// GetByID loads the header and all lines.
	GetByID(ctx context.Context, docID id.ID) (D, error)

	// GetForUpdate is GetByID with the header row locked until the transaction ends.
	GetForUpdate(ctx context.Context, docID id.ID) (D, error)

	// Update rewrites the header and replaces every line.
	Update(ctx context.Context, doc D) error

	// Delete removes the header and its lines.
	Delete(ctx context.Context, docID id.ID) error

	// NumberExists reports whether another document of this type uses number.
	NumberExists(ctx context.Context, number string) (bool, error)
}

// Recorder observes processor outcomes.
type Recorder interface {
	ObserveDocument(docType, operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDocument(string, string, string) {}

// Outcomes reported to Recorder.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// ProcessorConfig wires a Processor.
type ProcessorConfig[D Document] struct {
	// Name is the human-readable document type used in logs ("gate inward").
	Name      string
	Store     Store[D]
	Engine    *posting.Engine
	Numbers   numerator.Generator
	Numbering numerator.Config
	TxManager tx.Manager
	Recorder  Recorder
}

// Processor implements create, update and delete for one document type.
type Processor[D Document] struct {
	name      string
	store     Store[D]
	engine    *posting.Engine
	numbers   numerator.Generator
	numbering numerator.Config
	txManager tx.Manager
	recorder  Recorder
}

// NewProcessor creates a processor.
func NewProcessor[D Document](cfg ProcessorConfig[D]) *Processor[D] {
	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Processor[D]{
		name:      cfg.Name,
		store:     cfg.Store,
		engine:    cfg.Engine,
		numbers:   cfg.Numbers,
		numbering: cfg.Numbering,
		txManager: cfg.TxManager,
		recorder:  rec,
	}
}

// Create validates and persists doc and applies its movements.
// On any failure nothing is persisted and no balance changes.
func (p *Processor[D]) Create(ctx context.Context, doc D) error {
	if err := doc.Validate(ctx); err != nil {
		return p.finish(ctx, "create", doc.GetID(), doc.Header().Number, err)
	}
	doc.Header().StampCreated(appctx.GetUserID(ctx))

	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := p.assignNumber(ctx, doc); err != nil {
			return err
		}
		if err := p.engine.Validate(ctx, doc); err != nil {
			return err
		}
		if err := p.store.Create(ctx, doc); err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		return p.engine.Post(ctx, doc)
	})

	return p.finish(ctx, "create", doc.GetID(), doc.Header().Number, err, "lines", doc.LineCount())
}

// Update replaces the stored revision of doc.GetID() with doc.
// The stored lines are reversed and the new ones posted as one net change per
// balance; only the resulting balances must be non-negative, so stock already
// consumed by later documents does not block an edit that leaves enough behind.
// A non-zero doc version must match the stored one.
func (p *Processor[D]) Update(ctx context.Context, doc D) error {
	if err := doc.Validate(ctx); err != nil {
		return p.finish(ctx, "update", doc.GetID(), doc.Header().Number, err)
	}

	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := p.store.GetForUpdate(ctx, doc.GetID())
		if err != nil {
			return err
		}

		header, prevHeader := doc.Header(), prev.Header()
		if header.Version != 0 && header.Version != prevHeader.Version {
			return apperror.NewConcurrentModification(p.name, doc.GetID().String()).
				WithDetail("expectedVersion", header.Version).
				WithDetail("currentVersion", prevHeader.Version)
		}

		header.StampUpdated(prevHeader, appctx.GetUserID(ctx))
		if err := p.keepOrCheckNumber(ctx, header, prevHeader); err != nil {
			return err
		}

		if _, err := p.engine.Amend(ctx, prev, doc); err != nil {
			return err
		}
		if err := p.store.Update(ctx, doc); err != nil {
			return fmt.Errorf("update %s: %w", p.name, err)
		}
		return nil
	})

	return p.finish(ctx, "update", doc.GetID(), doc.Header().Number, err, "lines", doc.LineCount())
}

// Delete reverses the stored lines and removes the document.
func (p *Processor[D]) Delete(ctx context.Context, docID id.ID) error {
	var number string
	err := p.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		prev, err := p.store.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		number = prev.Header().Number

		if _, err := p.engine.Reverse(ctx, prev); err != nil {
			return err
		}
		if err := p.store.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete %s: %w", p.name, err)
		}
		return nil
	})

	return p.finish(ctx, "delete", docID, number, err)
}

// NextNumber previews the number the next create would receive.
func (p *Processor[D]) NextNumber(ctx context.Context) (string, error) {
	number, err := p.numbers.Peek(ctx, p.numbering)
	if err != nil {
		return "", apperror.NewStorage(fmt.Errorf("peek %s number: %w", p.name, err))
	}
	return number, nil
}

// assignNumber keeps a caller-supplied number unless another document already
// uses it, in which case a generated number replaces it.
func (p *Processor[D]) assignNumber(ctx context.Context, doc D) error {
	header := doc.Header()
	if header.Number != "" {
		exists, err := p.store.NumberExists(ctx, header.Number)
		if err != nil {
			return fmt.Errorf("check %s number: %w", p.name, err)
		}
		if !exists {
			return nil
		}
		logger.Warn(ctx, "document number already used, generating a new one",
			"type", p.name,
			"requested", header.Number,
		)
	}

	number, err := p.numbers.Next(ctx, p.numbering)
	if err != nil {
		return fmt.Errorf("generate %s number: %w", p.name, err)
	}
	header.Number = number
	return nil
}

func (p *Processor[D]) keepOrCheckNumber(ctx context.Context, header, prev *entity.Document) error {
	if header.Number == "" || header.Number == prev.Number {
		header.Number = prev.Number
		return nil
	}

	exists, err := p.store.NumberExists(ctx, header.Number)
	if err != nil {
		return fmt.Errorf("check %s number: %w", p.name, err)
	}
	if exists {
		return apperror.NewDuplicate(p.name, "number", header.Number)
	}
	return nil
}

// finish classifies err, logs and records the outcome. Errors that are not
// AppErrors come from the store or the transaction itself and are reported as
// storage failures.
func (p *Processor[D]) finish(ctx context.Context, op string, docID id.ID, number string, err error, kv ...any) error {
	fields := append([]any{"type", p.name, "op", op, "id", docID, "number", number}, kv...)

	if err == nil {
		p.recorder.ObserveDocument(p.name, op, OutcomeCommitted)
		logger.Info(ctx, p.name+" "+pastTense(op), fields...)
		return nil
	}

	appErr, ok := apperror.AsAppError(err)
	if !ok {
		appErr = apperror.NewStorage(err)
	}

	switch appErr.Code {
	case apperror.CodeValidation, apperror.CodeInsufficientStock, apperror.CodeNotFound,
		apperror.CodeConflict, apperror.CodeDuplicate, apperror.CodeConcurrentModification:
		p.recorder.ObserveDocument(p.name, op, OutcomeRejected)
		logger.Warn(ctx, p.name+" rejected", append(fields, "code", appErr.Code, "details", appErr.Details)...)
	default:
		p.recorder.ObserveDocument(p.name, op, OutcomeFailed)
		logger.Error(ctx, p.name+" failed", append(fields, "code", appErr.Code, "error", err)...)
	}

	return appErr
}

func pastTense(op string) string {
	switch op {
	case "create":
		return "created"
	case "update":
		return "updated"
	default:
		return "deleted"
	}
}
