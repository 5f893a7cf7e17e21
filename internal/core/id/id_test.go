package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedUnique(t *testing.T) {
	a := MustParse("00000000-0000-7000-8000-000000000001")
	b := MustParse("00000000-0000-7000-8000-000000000002")
	c := MustParse("00000000-0000-7000-8000-000000000003")

	in := []ID{c, a, b, a, c}
	got := SortedUnique(in)

	assert.Equal(t, []ID{a, b, c}, got)
	assert.Equal(t, c, in[0], "input must not be reordered")
}

func TestNew_IsVersion7(t *testing.T) {
	v := New()
	assert.False(t, IsNil(v))
	assert.EqualValues(t, 7, v.Version())
}
