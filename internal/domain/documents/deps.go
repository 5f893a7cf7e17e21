package documents

import (
	"millstock/internal/core/numerator"
	"millstock/internal/core/tx"
	"millstock/internal/domain/posting"
)

// Deps are the collaborators shared by every document service.
type Deps struct {
	Engine    *posting.Engine
	Numbers   numerator.Generator
	TxManager tx.Manager
	Recorder  Recorder

	// PadWidth overrides numerator.DefaultPadWidth when positive.
	PadWidth int
}

// Numbering returns the numbering config for prefix.
func (d Deps) Numbering(prefix string) numerator.Config {
	cfg := numerator.DefaultConfig(prefix)
	if d.PadWidth > 0 {
		cfg.PadWidth = d.PadWidth
	}
	return cfg
}

// NewProcessorFor builds a Processor for one document type from shared deps.
func NewProcessorFor[D Document](name, prefix string, store Store[D], deps Deps) *Processor[D] {
	return NewProcessor(ProcessorConfig[D]{
		Name:      name,
		Store:     store,
		Engine:    deps.Engine,
		Numbers:   deps.Numbers,
		Numbering: deps.Numbering(prefix),
		TxManager: deps.TxManager,
		Recorder:  deps.Recorder,
	})
}
