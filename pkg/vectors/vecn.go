package vectors

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// VecN is a variable-dimension vector. The dimension is fixed when the
// vector is created and never changes afterwards.
type VecN struct {
	elems []float64
}

// NewVecN creates a VecN from elems. The slice is copied.
func NewVecN(elems []float64) VecN {
	out := make([]float64, len(elems))
	copy(out, elems)
	return VecN{elems: out}
}

// Zeros returns an n-dimensional zero vector.
func Zeros(n int) VecN {
	return VecN{elems: make([]float64, n)}
}

// Constant returns an n-dimensional vector with every element set to c.
func Constant(n int, c float64) VecN {
	elems := make([]float64, n)
	for i := range elems {
		elems[i] = c
	}
	return VecN{elems: elems}
}

func (v VecN) assertSameDim(other VecN) {
	if len(v.elems) != len(other.elems) {
		panic("vectors: dimension mismatch")
	}
}

func (v VecN) Add(other VecN) VecN {
	v.assertSameDim(other)
	out := make([]float64, len(v.elems))
	floats.AddTo(out, v.elems, other.elems)
	return VecN{elems: out}
}

func (v VecN) Sub(other VecN) VecN {
	v.assertSameDim(other)
	out := make([]float64, len(v.elems))
	floats.SubTo(out, v.elems, other.elems)
	return VecN{elems: out}
}

func (v VecN) Scale(s float64) VecN {
	out := make([]float64, len(v.elems))
	floats.ScaleTo(out, s, v.elems)
	return VecN{elems: out}
}

func (v VecN) Neg() VecN { return v.Scale(-1) }

func (v VecN) Dot(other VecN) float64 {
	v.assertSameDim(other)
	return floats.Dot(v.elems, other.elems)
}

func (v VecN) Norm() float64 {
	var sum float64
	for _, e := range v.elems {
		sum += e * e
	}
	return math.Sqrt(sum)
}

func (v VecN) Len() int { return len(v.elems) }

func (v VecN) At(i int) float64 { return v.elems[i] }

func (v VecN) Elements() []float64 {
	out := make([]float64, len(v.elems))
	copy(out, v.elems)
	return out
}

func (v VecN) WithElements(elems []float64) VecN {
	return NewVecN(elems)
}
