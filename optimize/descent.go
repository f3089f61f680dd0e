package optimize

import (
	"github.com/rs/zerolog"

	"github.com/aristath/frontier/pkg/vectors"
)

// GradientDescent is the plain first-order minimizer: x ← x - η·∇f(x)
// with an optionally decaying learning rate. It handles unconstrained
// problems only.
type GradientDescent[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger

	// DecayRate shrinks the learning rate each iteration as
	// η/(1+decay·k). Zero keeps the rate fixed.
	DecayRate float64
	// Grad optionally supplies the analytic gradient of the objective.
	// Nil falls back to central differences.
	Grad func(V) V
}

// NewGradientDescent creates a gradient-descent minimizer.
func NewGradientDescent[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *GradientDescent[V] {
	return &GradientDescent[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "gradient_descent").Logger(),
	}
}

// Minimize runs descent from the given starting point until the
// gradient norm drops below tolerance or the iteration budget runs out.
func (g *GradientDescent[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	if len(subjectTo) > 0 {
		return Result[V]{}, ErrConstraintsUnsupported
	}

	x := from
	for k := 0; k < g.cfg.MaxIterations; k++ {
		grad := gradientOf(g.Grad, objective, x, g.cfg.GradientStep)
		if grad.Norm() < g.cfg.Tolerance {
			return Result[V]{Solution: x, Converged: true, Iterations: k, Objective: objective(x)}, nil
		}
		eta := g.cfg.LearningRate / (1 + g.DecayRate*float64(k))
		x = x.Sub(grad.Scale(eta))
	}

	g.log.Debug().Int("max_iterations", g.cfg.MaxIterations).Msg("Iteration budget exhausted")
	return Result[V]{Solution: x, Converged: false, Iterations: g.cfg.MaxIterations, Objective: objective(x)}, nil
}

// MomentumDescent adds an exponentially-weighted velocity term to plain
// gradient descent, damping oscillation on ill-conditioned objectives.
type MomentumDescent[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger

	// Grad optionally supplies the analytic gradient of the objective.
	// Nil falls back to central differences.
	Grad func(V) V
}

// NewMomentumDescent creates a momentum gradient-descent minimizer.
func NewMomentumDescent[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *MomentumDescent[V] {
	return &MomentumDescent[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "momentum").Logger(),
	}
}

func (m *MomentumDescent[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	if len(subjectTo) > 0 {
		return Result[V]{}, ErrConstraintsUnsupported
	}

	x := from
	velocity := from.Scale(0)
	for k := 0; k < m.cfg.MaxIterations; k++ {
		grad := gradientOf(m.Grad, objective, x, m.cfg.GradientStep)
		if grad.Norm() < m.cfg.Tolerance {
			return Result[V]{Solution: x, Converged: true, Iterations: k, Objective: objective(x)}, nil
		}
		velocity = velocity.Scale(m.cfg.Momentum).Sub(grad.Scale(m.cfg.LearningRate))
		x = x.Add(velocity)
	}

	m.log.Debug().Int("max_iterations", m.cfg.MaxIterations).Msg("Iteration budget exhausted")
	return Result[V]{Solution: x, Converged: false, Iterations: m.cfg.MaxIterations, Objective: objective(x)}, nil
}
