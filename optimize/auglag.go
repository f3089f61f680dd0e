package optimize

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/frontier/pkg/vectors"
)

// AugmentedLagrangian minimizes an objective subject to equality
// constraints by alternating between an unconstrained minimization of
//
//	L(x) = f(x) + Σ λᵢgᵢ(x) + (ρ/2)·Σ gᵢ(x)²
//
// over x and a first-order multiplier update λᵢ ← λᵢ + ρ·gᵢ(x). The
// penalty ρ grows geometrically whenever an outer iteration fails to
// shrink the constraint violation enough.
type AugmentedLagrangian[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger
}

// NewAugmentedLagrangian creates an equality-only constrained minimizer.
func NewAugmentedLagrangian[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *AugmentedLagrangian[V] {
	return &AugmentedLagrangian[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "augmented_lagrangian").Logger(),
	}
}

// Minimize runs the outer multiplier loop. Inequality constraints are
// rejected; use PenaltyBarrier or the adaptive optimizer for those.
func (al *AugmentedLagrangian[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	if len(subjectTo) == 0 {
		return innerMinimizer[V](al.cfg, from.Len(), al.log).Minimize(objective, from, nil)
	}
	if hasInequality(subjectTo) {
		return Result[V]{}, ErrConstraintsUnsupported
	}
	if err := checkResiduals(subjectTo, from); err != nil {
		return Result[V]{}, err
	}

	lambda := make([]float64, len(subjectTo))
	rho := al.cfg.PenaltyInitial
	x := from
	prevViolation := math.Inf(1)

	for outer := 0; outer < al.cfg.OuterIterations; outer++ {
		merit := augmentedObjective(objective, subjectTo, lambda, rho)

		inner := innerMinimizer[V](innerConfig(al.cfg), from.Len(), al.log)
		res, err := inner.Minimize(merit, x, nil)
		if err != nil {
			return Result[V]{}, err
		}
		x = res.Solution

		if err := checkResiduals(subjectTo, x); err != nil {
			return Result[V]{}, err
		}

		residuals := make([]float64, len(subjectTo))
		violation := 0.0
		for i, c := range subjectTo {
			residuals[i] = c.Evaluate(x)
			violation = math.Max(violation, math.Abs(residuals[i]))
		}

		// Stationarity is measured against the multipliers the inner
		// solve saw; updating λ first folds ρ·g·∇g into the gradient and
		// masks an exact solution.
		gradNorm := Gradient(merit, x, al.cfg.GradientStep).Norm()
		al.log.Debug().
			Int("outer", outer).
			Float64("violation", violation).
			Float64("grad_norm", gradNorm).
			Float64("penalty", rho).
			Msg("Outer iteration")

		if violation < al.cfg.Tolerance && gradNorm < al.cfg.Tolerance {
			return Result[V]{
				Solution:    x,
				Converged:   true,
				Iterations:  outer + 1,
				Objective:   objective(x),
				Multipliers: lambda,
				Penalty:     rho,
			}, nil
		}

		for i, g := range residuals {
			lambda[i] += rho * g
		}

		// Escalate the penalty when the violation has not shrunk to a
		// quarter of the previous outer iteration's. Only while the
		// iterate is infeasible: a residual already at tolerance cannot
		// shrink further.
		if violation >= al.cfg.Tolerance && violation > 0.25*prevViolation && rho < al.cfg.PenaltyMax {
			rho = math.Min(rho*al.cfg.PenaltyGrowth, al.cfg.PenaltyMax)
		}
		prevViolation = violation
	}

	al.log.Warn().
		Int("outer_iterations", al.cfg.OuterIterations).
		Float64("violation", prevViolation).
		Msg("Constrained solve did not converge")
	return Result[V]{
		Solution:    x,
		Converged:   false,
		Iterations:  al.cfg.OuterIterations,
		Objective:   objective(x),
		Multipliers: lambda,
		Penalty:     rho,
	}, nil
}

// augmentedObjective builds the augmented Lagrangian merit function for
// fixed multipliers and penalty.
func augmentedObjective[V vectors.Vector[V]](objective Objective[V], constraints []Constraint[V], lambda []float64, rho float64) Objective[V] {
	return func(x V) float64 {
		total := objective(x)
		for i, c := range constraints {
			g := c.Fn(x)
			total += lambda[i]*g + 0.5*rho*g*g
		}
		return total
	}
}

// innerConfig bounds the inner unconstrained solves by the inner budget.
func innerConfig(cfg Config) Config {
	cfg.MaxIterations = cfg.InnerIterations
	return cfg
}

// innerMinimizer picks the unconstrained workhorse for a given
// dimension: BFGS for small problems, Adam above the threshold.
func innerMinimizer[V vectors.Vector[V]](cfg Config, dim int, log zerolog.Logger) Minimizer[V] {
	if dim > adamDimensionThreshold {
		return NewAdam[V](cfg, log)
	}
	return NewBFGS[V](cfg, log)
}
