package posting

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"millstock/internal/core/apperror"
)

var tracer = otel.Tracer("millstock/posting")

// Engine applies and reverses document movements through the ledger.
// It must be called inside a tx.Manager unit of work.
type Engine struct {
	ledger    Ledger
	validator *Validator
}

// NewEngine creates a posting engine.
func NewEngine(ledger Ledger, items ItemCatalog) *Engine {
	return &Engine{
		ledger:    ledger,
		validator: NewValidator(items, ledger),
	}
}

// Validate checks the document's movements without touching any balance.
func (e *Engine) Validate(ctx context.Context, doc Postable) error {
	ctx, span := e.start(ctx, "posting.Validate", doc)
	defer span.End()

	return record(span, e.validator.Validate(ctx, doc.Movements()))
}

// Post applies the document's movements. Callers validate first.
func (e *Engine) Post(ctx context.Context, doc Postable) error {
	ctx, span := e.start(ctx, "posting.Post", doc)
	defer span.End()

	return record(span, e.apply(ctx, doc, doc.Movements()))
}

// Apply validates, then posts.
func (e *Engine) Apply(ctx context.Context, doc Postable) error {
	if err := e.Validate(ctx, doc); err != nil {
		return err
	}
	return e.Post(ctx, doc)
}

// Reverse applies the inverse of the document's movements, as loaded from its
// persisted lines, without a sufficiency check. A credit back always succeeds;
// a debit back fails with INSUFFICIENT_STOCK when later documents already
// consumed the stock, and the surrounding unit of work must then abort.
func (e *Engine) Reverse(ctx context.Context, doc Postable) (MovementSet, error) {
	ctx, span := e.start(ctx, "posting.Reverse", doc)
	defer span.End()

	inverse := doc.Movements().Inverse()
	if err := e.apply(ctx, doc, inverse); err != nil {
		return nil, record(span, err)
	}
	return inverse, nil
}

// Amend replaces prev's movements with next's. The lines of next are checked
// as on create; balances are checked against the sum of reversing prev and
// posting next, so only the final balance of each (pool, item) must stay
// non-negative. Each touched balance is then adjusted once by its net delta.
func (e *Engine) Amend(ctx context.Context, prev, next Postable) ([]Change, error) {
	ctx, span := e.start(ctx, "posting.Amend", next)
	defer span.End()

	incoming := next.Movements()
	if err := e.validator.CheckLines(ctx, incoming); err != nil {
		return nil, record(span, err)
	}

	net := append(prev.Movements().Inverse(), incoming...).Net()
	if err := e.validator.CheckNet(ctx, net); err != nil {
		return nil, record(span, err)
	}

	for _, c := range net {
		if _, err := e.ledger.Adjust(ctx, c.Pool, c.ItemID, c.Delta); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				appErr.WithDetail("documentType", next.DocumentType())
			}
			return nil, record(span, err)
		}
	}
	span.SetAttributes(attribute.Int("posting.changes", len(net)))
	return net, nil
}

func (e *Engine) apply(ctx context.Context, doc Postable, set MovementSet) error {
	for _, m := range set.Sorted() {
		if _, err := e.ledger.Adjust(ctx, m.Pool, m.ItemID, m.Delta()); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				appErr.WithDetail("documentType", doc.DocumentType()).
					WithDetail("field", m.Group).
					WithDetail("lineNo", m.LineNo)
			}
			return err
		}
	}
	return nil
}

func (e *Engine) start(ctx context.Context, name string, doc Postable) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("document.type", doc.DocumentType()),
		attribute.String("document.id", doc.GetID().String()),
	))
}

func record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
