package numerator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_FormatAndParse(t *testing.T) {
	cfg := DefaultConfig("GRN")

	assert.Equal(t, "GRN-001", cfg.Format(1))
	assert.Equal(t, "GRN-1234", cfg.Format(1234))
	assert.Equal(t, int64(42), cfg.Parse("GRN-042"))
	assert.Equal(t, int64(-1), cfg.Parse("ISS-042"))
	assert.Equal(t, int64(-1), cfg.Parse("GRN-"))
}

func TestMockGenerator_PerPrefix(t *testing.T) {
	g := &MockGenerator{}
	ctx := context.Background()

	peek, err := g.Peek(ctx, DefaultConfig("CHL"))
	require.NoError(t, err)
	assert.Equal(t, "CHL-001", peek)

	n1, _ := g.Next(ctx, DefaultConfig("CHL"))
	n2, _ := g.Next(ctx, DefaultConfig("CHL"))
	n3, _ := g.Next(ctx, DefaultConfig("REC"))

	assert.Equal(t, "CHL-001", n1)
	assert.Equal(t, "CHL-002", n2)
	assert.Equal(t, "REC-001", n3)
}
