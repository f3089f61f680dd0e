package optimize

import (
	"github.com/rs/zerolog"

	"github.com/aristath/frontier/pkg/vectors"
)

// Strategy selects which concrete optimizer the factory builds.
type Strategy int

const (
	// StrategyAutomatic inspects the constraint set at call time and
	// dispatches accordingly. It is the zero value and behaves exactly
	// like StrategyAdaptive.
	StrategyAutomatic Strategy = iota
	// StrategyEqualityOnly always uses the augmented-Lagrangian solver;
	// it rejects inequality constraints.
	StrategyEqualityOnly
	// StrategyInequalityCapable always uses the penalty-barrier solver.
	StrategyInequalityCapable
	// StrategyAdaptive dispatches per call: unconstrained problems go to
	// Adam or BFGS by dimension, equality-only sets to the augmented
	// Lagrangian, anything with inequalities to the penalty barrier.
	StrategyAdaptive
)

func (s Strategy) String() string {
	switch s {
	case StrategyEqualityOnly:
		return "equality_only"
	case StrategyInequalityCapable:
		return "inequality_capable"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return "automatic"
	}
}

// New builds the optimizer for a strategy. The returned Minimizer is
// stateless across calls and safe for concurrent use with different
// inputs.
func New[V vectors.Vector[V]](strategy Strategy, cfg Config, log zerolog.Logger) Minimizer[V] {
	switch strategy {
	case StrategyEqualityOnly:
		return NewAugmentedLagrangian[V](cfg, log)
	case StrategyInequalityCapable:
		return NewPenaltyBarrier[V](cfg, log)
	default:
		return NewAdaptive[V](cfg, log)
	}
}

// Adaptive inspects the constraint set on every call and forwards to
// the cheapest solver that can handle it. This is pure dispatch, not a
// new algorithm.
type Adaptive[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger
}

// NewAdaptive creates the dispatching optimizer.
func NewAdaptive[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *Adaptive[V] {
	return &Adaptive[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "adaptive").Logger(),
	}
}

func (a *Adaptive[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	switch {
	case len(subjectTo) == 0:
		a.log.Debug().Int("dimension", from.Len()).Msg("Dispatching to unconstrained solver")
		return innerMinimizer[V](a.cfg, from.Len(), a.log).Minimize(objective, from, nil)
	case hasInequality(subjectTo):
		a.log.Debug().Int("constraints", len(subjectTo)).Msg("Dispatching to penalty-barrier solver")
		return NewPenaltyBarrier[V](a.cfg, a.log).Minimize(objective, from, subjectTo)
	default:
		a.log.Debug().Int("constraints", len(subjectTo)).Msg("Dispatching to augmented-Lagrangian solver")
		return NewAugmentedLagrangian[V](a.cfg, a.log).Minimize(objective, from, subjectTo)
	}
}
