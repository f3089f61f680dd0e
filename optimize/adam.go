package optimize

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/frontier/pkg/vectors"
)

// Adam maintains per-coordinate first and second raw moment estimates
// with bias correction. It is the preferred unconstrained method for
// high-dimensional or noisy objectives and the default inner solver
// above adamDimensionThreshold dimensions.
type Adam[V vectors.Vector[V]] struct {
	cfg Config
	log zerolog.Logger

	// Grad optionally supplies the analytic gradient of the objective.
	// Nil falls back to central differences.
	Grad func(V) V
}

// NewAdam creates an Adam minimizer.
func NewAdam[V vectors.Vector[V]](cfg Config, log zerolog.Logger) *Adam[V] {
	return &Adam[V]{
		cfg: cfg.withDefaults(),
		log: log.With().Str("optimizer", "adam").Logger(),
	}
}

func (a *Adam[V]) Minimize(objective Objective[V], from V, subjectTo []Constraint[V]) (Result[V], error) {
	if len(subjectTo) > 0 {
		return Result[V]{}, ErrConstraintsUnsupported
	}

	n := from.Len()
	x := from.Elements()
	m := make([]float64, n)
	v := make([]float64, n)

	for k := 1; k <= a.cfg.MaxIterations; k++ {
		grad := gradientOf(a.Grad, objective, from.WithElements(x), a.cfg.GradientStep)
		if grad.Norm() < a.cfg.Tolerance {
			sol := from.WithElements(x)
			return Result[V]{Solution: sol, Converged: true, Iterations: k - 1, Objective: objective(sol)}, nil
		}

		g := grad.Elements()
		for i := 0; i < n; i++ {
			m[i] = DefaultAdamBeta1*m[i] + (1-DefaultAdamBeta1)*g[i]
			v[i] = DefaultAdamBeta2*v[i] + (1-DefaultAdamBeta2)*g[i]*g[i]

			// Bias-corrected moment estimates.
			mHat := m[i] / (1 - math.Pow(DefaultAdamBeta1, float64(k)))
			vHat := v[i] / (1 - math.Pow(DefaultAdamBeta2, float64(k)))

			x[i] -= a.cfg.LearningRate * mHat / (math.Sqrt(vHat) + DefaultAdamEpsilon)
		}
	}

	a.log.Debug().Int("max_iterations", a.cfg.MaxIterations).Msg("Iteration budget exhausted")
	sol := from.WithElements(x)
	return Result[V]{Solution: sol, Converged: false, Iterations: a.cfg.MaxIterations, Objective: objective(sol)}, nil
}
