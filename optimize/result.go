package optimize

import "github.com/aristath/frontier/pkg/vectors"

// Objective is the scalar function being minimized.
type Objective[V vectors.Vector[V]] func(V) float64

// Result is returned by every Minimize call. Converged is data, not an
// error: when the iteration budget runs out the best point found is
// still returned and callers decide whether to accept it.
type Result[V vectors.Vector[V]] struct {
	// Solution is the best point found.
	Solution V
	// Converged reports whether the solver met its convergence contract:
	// constraint violation below tolerance and objective-gradient norm
	// below tolerance, within the iteration budgets.
	Converged bool
	// Iterations counts outer iterations for constrained solvers and
	// plain iterations for unconstrained ones.
	Iterations int
	// Objective is the objective value at Solution.
	Objective float64
	// Multipliers holds the Lagrange multipliers at the solution, one
	// per equality constraint, for constrained solves. Nil otherwise.
	Multipliers []float64
	// Penalty is the final quadratic penalty weight for constrained
	// solves. Zero otherwise.
	Penalty float64
}

// Minimizer is the uniform contract every solver in this package
// exposes. Unconstrained solvers reject non-empty constraint sets with
// ErrConstraintsUnsupported.
type Minimizer[V vectors.Vector[V]] interface {
	Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error)
}
