// Package optimize implements constrained and unconstrained multivariate
// minimization: gradient descent, momentum, Adam, Newton and BFGS as
// unconstrained building blocks, plus an augmented-Lagrangian solver for
// equality constraints and a penalty-barrier solver for inequality
// constraints. Every solver exposes the same Minimize contract and is
// generic over the vectors.Vector abstraction.
package optimize

// Default iteration budgets and numeric constants.
const (
	DefaultTolerance       = 1e-6
	DefaultMaxIterations   = 1000
	DefaultOuterIterations = 100
	DefaultInnerIterations = 500
	DefaultLearningRate    = 0.01
	DefaultGradientStep    = 1e-6
	DefaultHessianStep     = 1e-4
	DefaultMomentum        = 0.9
	DefaultPenaltyInitial  = 10.0
	DefaultPenaltyGrowth   = 10.0
	DefaultPenaltyMax      = 1e12

	// Adam moment decay rates and divide-by-zero guard.
	DefaultAdamBeta1   = 0.9
	DefaultAdamBeta2   = 0.999
	DefaultAdamEpsilon = 1e-8

	// Dimension above which the adaptive dispatch prefers Adam over BFGS
	// for the unconstrained and inner solves.
	adamDimensionThreshold = 50
)

// Config carries the tunable parameters shared by all solvers. The zero
// value is usable: missing fields are filled in by withDefaults.
type Config struct {
	// Tolerance bounds both the gradient norm (inner convergence) and the
	// constraint violation (outer convergence).
	Tolerance float64
	// MaxIterations bounds a single unconstrained minimization.
	MaxIterations int
	// OuterIterations bounds the multiplier/penalty updates of the
	// constrained solvers.
	OuterIterations int
	// InnerIterations bounds each inner unconstrained solve of the
	// constrained solvers.
	InnerIterations int
	// LearningRate is the step size for the first-order methods.
	LearningRate float64
	// GradientStep is the central-difference step for gradients.
	GradientStep float64
	// Momentum is the velocity decay for momentum gradient descent.
	Momentum float64
	// PenaltyInitial, PenaltyGrowth and PenaltyMax control the quadratic
	// penalty escalation of the constrained solvers.
	PenaltyInitial float64
	PenaltyGrowth  float64
	PenaltyMax     float64
}

func (c Config) withDefaults() Config {
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.OuterIterations <= 0 {
		c.OuterIterations = DefaultOuterIterations
	}
	if c.InnerIterations <= 0 {
		c.InnerIterations = DefaultInnerIterations
	}
	if c.LearningRate <= 0 {
		c.LearningRate = DefaultLearningRate
	}
	if c.GradientStep <= 0 {
		c.GradientStep = DefaultGradientStep
	}
	if c.Momentum <= 0 {
		c.Momentum = DefaultMomentum
	}
	if c.PenaltyInitial <= 0 {
		c.PenaltyInitial = DefaultPenaltyInitial
	}
	if c.PenaltyGrowth <= 1 {
		c.PenaltyGrowth = DefaultPenaltyGrowth
	}
	if c.PenaltyMax <= 0 {
		c.PenaltyMax = DefaultPenaltyMax
	}
	return c
}
