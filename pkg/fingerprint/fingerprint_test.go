package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_Deterministic(t *testing.T) {
	a := Compute("Skincare", "Beauty")
	b := Compute("Skincare", "Beauty")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestCompute_NormalizesCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, Compute("Skincare", "Beauty"), Compute("  skincare ", "BEAUTY"))
}

func TestCompute_DifferentInputDiffers(t *testing.T) {
	assert.NotEqual(t, Compute("Skincare"), Compute("Skincarf"))
}

func TestCompute_FieldBoundariesMatter(t *testing.T) {
	// Concatenation across field boundaries must not collide
	assert.NotEqual(t, Compute("ab", "c"), Compute("a", "bc"))
	assert.NotEqual(t, Compute("a", ""), Compute("", "a"))
}

func TestComputeUnordered_OrderIndependent(t *testing.T) {
	a := ComputeUnordered([]string{"vegan", "Skincare", "organic"})
	b := ComputeUnordered([]string{"Organic", "vegan", "skincare"})
	assert.Equal(t, a, b)
}

func TestLink_NilAndEmptyRefsCollapse(t *testing.T) {
	cat := "cat-1"
	empty := ""
	withNil := Link(&cat, nil, "b1", "content", "c1")
	withEmpty := Link(&cat, &empty, "b1", "content", "c1")
	assert.Equal(t, withNil, withEmpty)

	other := Link(&cat, nil, "b1", "content", "c2")
	assert.NotEqual(t, withNil, other)
}

func TestRecord_BusinessScoped(t *testing.T) {
	a := Record("b1", "Launch plan", "body", "blog")
	b := Record("b2", "Launch plan", "body", "blog")
	assert.NotEqual(t, a, b)
}
