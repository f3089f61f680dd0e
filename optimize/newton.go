package optimize

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/frontier/pkg/vectors"
)

// Newton solves H·Δx = -∇f each step using a finite-difference Hessian
// and a Cholesky factorization. A failed factorization signals a
// non-convex region; the step is replaced by a plain gradient step
// rather than surfaced as an error.
type Newton[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger

	// Grad optionally supplies the analytic gradient of the objective.
	// Nil falls back to central differences. The Hessian is always
	// finite-difference.
	Grad func(V) V
}

// NewNewton creates a Newton minimizer.
func NewNewton[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *Newton[V] {
	return &Newton[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "newton").Logger(),
	}
}

func (nw *Newton[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	if len(subjectTo) > 0 {
		return Result[V]{}, ErrConstraintsUnsupported
	}

	x := from
	n := from.Len()
	var chol mat.Cholesky
	step := mat.NewVecDense(n, nil)

	for k := 0; k < nw.cfg.MaxIterations; k++ {
		grad := gradientOf(nw.Grad, objective, x, nw.cfg.GradientStep)
		if grad.Norm() < nw.cfg.Tolerance {
			return Result[V]{Solution: x, Converged: true, Iterations: k, Objective: objective(x)}, nil
		}

		hess := Hessian(objective, x, DefaultHessianStep)
		if chol.Factorize(hess) {
			if err := chol.SolveVecTo(step, mat.NewVecDense(n, grad.Elements())); err == nil {
				next := x.Sub(x.WithElements(stepElements(step)))
				// Reject steps that do not descend; shrink toward the
				// gradient direction instead.
				if objective(next) < objective(x) {
					x = next
					continue
				}
			}
		}
		x = x.Sub(grad.Scale(nw.cfg.LearningRate))
	}

	nw.log.Debug().Int("max_iterations", nw.cfg.MaxIterations).Msg("Iteration budget exhausted")
	return Result[V]{Solution: x, Converged: false, Iterations: nw.cfg.MaxIterations, Objective: objective(x)}, nil
}

func stepElements(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// BFGS substitutes a rank-2 secant approximation to the inverse Hessian
// for Newton's explicit Hessian, trading convergence order for per-step
// cost. Negative-curvature pairs reset the approximation to identity.
type BFGS[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger

	// Grad optionally supplies the analytic gradient of the objective.
	// Nil falls back to central differences.
	Grad func(V) V
}

// NewBFGS creates a BFGS minimizer.
func NewBFGS[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *BFGS[V] {
	return &BFGS[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "bfgs").Logger(),
	}
}

func (b *BFGS[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	if len(subjectTo) > 0 {
		return Result[V]{}, ErrConstraintsUnsupported
	}

	n := from.Len()
	hinv := identity(n)
	x := from
	grad := gradientOf(b.Grad, objective, x, b.cfg.GradientStep)

	for k := 0; k < b.cfg.MaxIterations; k++ {
		if grad.Norm() < b.cfg.Tolerance {
			return Result[V]{Solution: x, Converged: true, Iterations: k, Objective: objective(x)}, nil
		}

		// Search direction d = -Hinv·∇f.
		gVec := mat.NewVecDense(n, grad.Elements())
		dVec := mat.NewVecDense(n, nil)
		dVec.MulVec(hinv, gVec)
		direction := x.WithElements(stepElements(dVec)).Neg()

		next, ok := backtrack(objective, x, direction)
		if !ok {
			// Not a descent direction; reset the approximation and take
			// a gradient step.
			hinv = identity(n)
			next, ok = backtrack(objective, x, grad.Neg())
			if !ok {
				b.log.Debug().Int("iteration", k).Msg("Line search stalled")
				return Result[V]{Solution: x, Converged: false, Iterations: k, Objective: objective(x)}, nil
			}
		}

		nextGrad := gradientOf(b.Grad, objective, next, b.cfg.GradientStep)
		s := next.Sub(x)
		y := nextGrad.Sub(grad)
		if sy := s.Dot(y); sy > 1e-12 {
			updateInverseHessian(hinv, s.Elements(), y.Elements(), sy)
		} else {
			// Curvature condition failed; the secant pair would destroy
			// positive definiteness.
			hinv = identity(n)
		}

		x = next
		grad = nextGrad
	}

	b.log.Debug().Int("max_iterations", b.cfg.MaxIterations).Msg("Iteration budget exhausted")
	return Result[V]{Solution: x, Converged: false, Iterations: b.cfg.MaxIterations, Objective: objective(x)}, nil
}

// backtrack halves a unit step along direction until the objective
// decreases, giving up after 30 halvings.
func backtrack[V vectors.Vector[V]](objective Objective[V], x, direction V) (V, bool) {
	f0 := objective(x)
	t := 1.0
	for i := 0; i < 30; i++ {
		candidate := x.Add(direction.Scale(t))
		if objective(candidate) < f0 {
			return candidate, true
		}
		t /= 2
	}
	return x, false
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// updateInverseHessian applies the BFGS inverse update
// H ← (I - ρsyᵀ)H(I - ρysᵀ) + ρssᵀ with ρ = 1/sᵀy.
func updateInverseHessian(h *mat.Dense, s, y []float64, sy float64) {
	n := len(s)
	rho := 1 / sy

	left := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := -rho * s[i] * y[j]
			if i == j {
				v++
			}
			left.Set(i, j, v)
		}
	}

	var tmp, updated mat.Dense
	tmp.Mul(left, h)
	updated.Mul(&tmp, left.T())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			updated.Set(i, j, updated.At(i, j)+rho*s[i]*s[j])
		}
	}
	h.Copy(&updated)
}
