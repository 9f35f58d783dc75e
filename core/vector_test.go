package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVector(t *testing.T) {
	v := []float32{3, 4}
	n := NormalizeVector(v)

	assert.InDelta(t, 0.6, n[0], 1e-6)
	assert.InDelta(t, 0.8, n[1], 1e-6)
	assert.Equal(t, []float32{3, 4}, v, "input must not be mutated")

	var norm float64
	for _, x := range n {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	n := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, n)
}

func TestDotProduct(t *testing.T) {
	a := []float32{1, 0, 0.5}
	b := []float32{0.5, 1, 1}
	assert.InDelta(t, 1.0, DotProduct(a, b), 1e-6)
}

func TestDotProduct_LengthMismatch(t *testing.T) {
	a := []float32{1, 1, 1}
	b := []float32{1, 1}
	assert.InDelta(t, 2.0, DotProduct(a, b), 1e-6, "uses the shorter length")
}
