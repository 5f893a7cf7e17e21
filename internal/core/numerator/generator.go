package numerator

import (
	"context"
)

// Generator generates sequential document numbers.
// Implementations live in the infrastructure layer.
type Generator interface {
	// Next allocates and returns the next number for cfg.Prefix.
	Next(ctx context.Context, cfg Config) (string, error)

	// Peek returns the number Next would allocate, without allocating it.
	Peek(ctx context.Context, cfg Config) (string, error)
}
