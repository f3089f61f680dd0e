package optimize

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/frontier/pkg/vectors"
)

// PenaltyBarrier handles mixed equality and inequality constraint sets.
// Inequalities g(x) ≤ 0 become smooth quadratic penalties on
// max(0, g(x)); equalities reuse the augmented-Lagrangian machinery
// (multiplier plus quadratic term). The penalty weight escalates across
// outer iterations, pushing the iterate toward the feasible boundary
// without requiring a strictly feasible start.
type PenaltyBarrier[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger
}

// NewPenaltyBarrier creates an inequality-capable constrained minimizer.
func NewPenaltyBarrier[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *PenaltyBarrier[V] {
	return &PenaltyBarrier[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "penalty_barrier").Logger(),
	}
}

func (pb *PenaltyBarrier[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	if len(subjectTo) == 0 {
		return innerMinimizer[V](pb.cfg, from.Len(), pb.log).Minimize(objective, from, nil)
	}
	if err := checkResiduals(subjectTo, from); err != nil {
		return Result[V]{}, err
	}

	var equalities, inequalities []Constraint[V]
	for _, c := range subjectTo {
		if c.Kind == Equality {
			equalities = append(equalities, c)
		} else {
			inequalities = append(inequalities, c)
		}
	}

	lambda := make([]float64, len(equalities))
	rho := pb.cfg.PenaltyInitial
	x := from
	prevViolation := math.Inf(1)

	for outer := 0; outer < pb.cfg.OuterIterations; outer++ {
		merit := penaltyObjective(objective, equalities, inequalities, lambda, rho)

		inner := innerMinimizer[V](innerConfig(pb.cfg), from.Len(), pb.log)
		res, err := inner.Minimize(merit, x, nil)
		if err != nil {
			return Result[V]{}, err
		}
		x = res.Solution

		if err := checkResiduals(subjectTo, x); err != nil {
			return Result[V]{}, err
		}

		residuals := make([]float64, len(equalities))
		violation := 0.0
		for i, c := range equalities {
			residuals[i] = c.Evaluate(x)
			violation = math.Max(violation, math.Abs(residuals[i]))
		}
		for _, c := range inequalities {
			violation = math.Max(violation, math.Max(0, c.Evaluate(x)))
		}

		// Stationarity is measured against the multipliers the inner
		// solve saw; updating λ first folds ρ·g·∇g into the gradient and
		// masks an exact solution.
		gradNorm := Gradient(merit, x, pb.cfg.GradientStep).Norm()
		pb.log.Debug().
			Int("outer", outer).
			Float64("violation", violation).
			Float64("grad_norm", gradNorm).
			Float64("penalty", rho).
			Msg("Outer iteration")

		if violation < pb.cfg.Tolerance && gradNorm < pb.cfg.Tolerance {
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

		// Escalate only while the iterate is infeasible: a residual
		// already at tolerance cannot shrink further.
		if violation >= pb.cfg.Tolerance && violation > 0.25*prevViolation && rho < pb.cfg.PenaltyMax {
			rho = math.Min(rho*pb.cfg.PenaltyGrowth, pb.cfg.PenaltyMax)
		}
		prevViolation = violation
	}

	pb.log.Warn().
		Int("outer_iterations", pb.cfg.OuterIterations).
		Float64("violation", prevViolation).
		Msg("Constrained solve did not converge")
	return Result[V]{
		Solution:    x,
		Converged:   false,
		Iterations:  pb.cfg.OuterIterations,
		Objective:   objective(x),
		Multipliers: lambda,
		Penalty:     rho,
	}, nil
}

// penaltyObjective builds the combined merit function: augmented
// Lagrangian terms for equalities, quadratic max(0,g)² penalties for
// inequalities.
func penaltyObjective[V vectors.Vector[V]](objective Objective[V], equalities, inequalities []Constraint[V], lambda []float64, rho float64) Objective[V] {
	return func(x V) float64 {
		total := objective(x)
		for i, c := range equalities {
			g := c.Fn(x)
			total += lambda[i]*g + 0.5*rho*g*g
		}
		for _, c := range inequalities {
			if g := c.Fn(x); g > 0 {
				total += 0.5 * rho * g * g
			}
		}
		return total
	}
}
