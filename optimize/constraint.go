package optimize

import (
	"errors"
	"math"

	"github.com/aristath/frontier/pkg/vectors"
)

// Package-level errors for the two fail-fast classes: structural input
// problems and constraint functions producing non-finite values.
var (
	// ErrDimensionMismatch reports disagreeing input shapes, detected at
	// call entry.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidConstraint reports a constraint evaluating to NaN or Inf.
	// This indicates a programmer error in the constraint closure, not a
	// recoverable numerical condition.
	ErrInvalidConstraint = errors.New("constraint evaluated to a non-finite value")
	// ErrConstraintsUnsupported reports constraints handed to a solver
	// that cannot honor them.
	ErrConstraintsUnsupported = errors.New("constraint kind not supported by this optimizer")
)

// Kind tags a constraint as equality (residual ≈ 0) or inequality
// (residual ≤ 0 when feasible).
type Kind int

const (
	Equality Kind = iota
	Inequality
)

func (k Kind) String() string {
	if k == Equality {
		return "equality"
	}
	return "inequality"
}

// Constraint is a single scalar constraint over a vector-space point: a
// pure residual function plus its kind tag. The function must be
// deterministic and side-effect-free; it is evaluated many times per
// iteration.
type Constraint[V vectors.Vector[V]] struct {
	Kind Kind
	Fn   func(V) float64
}

// EqualityConstraint builds a constraint satisfied when fn(x) ≈ 0.
func EqualityConstraint[V vectors.Vector[V]](fn func(V) float64) Constraint[V] {
	return Constraint[V]{Kind: Equality, Fn: fn}
}

// InequalityConstraint builds a constraint satisfied when fn(x) ≤ 0.
func InequalityConstraint[V vectors.Vector[V]](fn func(V) float64) Constraint[V] {
	return Constraint[V]{Kind: Inequality, Fn: fn}
}

// Evaluate returns the constraint residual at x.
func (c Constraint[V]) Evaluate(x V) float64 {
	return c.Fn(x)
}

// IsSatisfied reports whether the residual at x meets the feasibility
// rule for the constraint kind within tolerance.
func (c Constraint[V]) IsSatisfied(x V, tolerance float64) bool {
	r := c.Fn(x)
	if c.Kind == Equality {
		return math.Abs(r) <= tolerance
	}
	return r <= tolerance
}

// Violation returns how far x is from satisfying the constraint: the
// absolute residual for equalities, max(0, residual) for inequalities.
func (c Constraint[V]) Violation(x V) float64 {
	r := c.Fn(x)
	if c.Kind == Equality {
		return math.Abs(r)
	}
	return math.Max(0, r)
}

// hasInequality reports whether any constraint in the set is an
// inequality. The factory and the adaptive dispatch both branch on this.
func hasInequality[V vectors.Vector[V]](constraints []Constraint[V]) bool {
	for _, c := range constraints {
		if c.Kind == Inequality {
			return true
		}
	}
	return false
}

// checkResiduals validates that every constraint produces a finite
// residual at x. Non-finite residuals are fatal for the current solve.
func checkResiduals[V vectors.Vector[V]](constraints []Constraint[V], x V) error {
	for _, c := range constraints {
		if r := c.Fn(x); math.IsNaN(r) || math.IsInf(r, 0) {
			return ErrInvalidConstraint
		}
	}
	return nil
}
