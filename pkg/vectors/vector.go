// Package vectors provides the vector-space abstraction all optimization
// code is generic over, plus concrete fixed-dimension (Vec2, Vec3) and
// variable-dimension (VecN) realizations.
package vectors

// Vector is the algebraic contract optimizers are written against.
// V is the concrete vector type itself (Vec2, Vec3, VecN), so every
// operation stays in the concrete type without boxing.
//
// Dimension is fixed at construction. Combining vectors of mismatched
// dimension is a programmer error and panics — it must never silently
// truncate.
type Vector[V any] interface {
	// Add returns the element-wise sum with other.
	Add(other V) V
	// Sub returns the element-wise difference with other.
	Sub(other V) V
	// Scale returns the vector multiplied by scalar s.
	Scale(s float64) V
	// Neg returns the negated vector.
	Neg() V
	// Dot returns the inner product with other.
	Dot(other V) float64
	// Norm returns the Euclidean norm.
	Norm() float64
	// Len returns the dimension.
	Len() int
	// At returns the i-th element.
	At(i int) float64
	// Elements returns the elements as a fresh slice; mutating the
	// returned slice never affects the vector.
	Elements() []float64
	// WithElements builds a new vector of the same concrete type from
	// elems. Panics if len(elems) does not match the dimension (for
	// fixed-dimension types).
	WithElements(elems []float64) V
}
