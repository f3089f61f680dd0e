package portfolio

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/frontier/optimize"
	"github.com/aristath/frontier/pkg/vectors"
)

// Recorder receives completed solves for audit purposes. Recording
// failures are logged, never propagated: the audit trail must not break
// an otherwise successful optimization.
type Recorder interface {
	RecordRun(method string, p *OptimalPortfolio) error
}

// Service runs portfolio optimizations. It holds no per-call state, so
// a single Service is safe for concurrent solves with different inputs.
type Service struct {
	cfg      optimize.Config
	log      zerolog.Logger
	recorder Recorder
}

// NewService creates a portfolio optimization service.
func NewService(cfg optimize.Config, log zerolog.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log.With().Str("service", "portfolio").Logger(),
	}
}

// SetRecorder attaches an audit recorder. Pass nil to detach.
func (s *Service) SetRecorder(r Recorder) { s.recorder = r }

// MinimumVariance solves min wᵀΣw under the selected constraint set.
func (s *Service) MinimumVariance(in Inputs, set ConstraintSet, bounds Bounds) (*OptimalPortfolio, error) {
	sigma, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	n := len(in.ExpectedReturns)
	constraints, err := buildConstraints(n, set, bounds)
	if err != nil {
		return nil, err
	}
	p, err := s.solve(in, sigma, VarianceObjective(sigma), constraints, equalWeights(n))
	if err != nil {
		return nil, fmt.Errorf("minimum variance: %w", err)
	}
	s.record("minimum_variance", p)
	return p, nil
}

// MaximumSharpe solves min -(μᵀw - r_f)/σ(w) under the selected
// constraint set.
func (s *Service) MaximumSharpe(in Inputs, set ConstraintSet, bounds Bounds) (*OptimalPortfolio, error) {
	sigma, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	n := len(in.ExpectedReturns)
	constraints, err := buildConstraints(n, set, bounds)
	if err != nil {
		return nil, err
	}
	objective := NegativeSharpeObjective(in.ExpectedReturns, sigma, in.RiskFreeRate)
	p, err := s.solve(in, sigma, objective, constraints, equalWeights(n))
	if err != nil {
		return nil, fmt.Errorf("maximum sharpe: %w", err)
	}
	s.record("maximum_sharpe", p)
	return p, nil
}

// RiskParity solves for equal per-asset risk contributions under the
// selected constraint set.
func (s *Service) RiskParity(in Inputs, set ConstraintSet, bounds Bounds) (*OptimalPortfolio, error) {
	sigma, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	n := len(in.ExpectedReturns)
	constraints, err := buildConstraints(n, set, bounds)
	if err != nil {
		return nil, err
	}
	p, err := s.solve(in, sigma, RiskParityObjective(sigma), constraints, equalWeights(n))
	if err != nil {
		return nil, fmt.Errorf("risk parity: %w", err)
	}
	s.record("risk_parity", p)
	return p, nil
}

// TargetReturn solves min wᵀΣw with the additional equality μᵀw = target.
func (s *Service) TargetReturn(in Inputs, target float64, set ConstraintSet, bounds Bounds) (*OptimalPortfolio, error) {
	sigma, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	p, err := s.targetReturnFrom(in, sigma, target, set, bounds, equalWeights(len(in.ExpectedReturns)))
	if err != nil {
		return nil, err
	}
	s.record("target_return", p)
	return p, nil
}

// targetReturnFrom is the warm-startable core of TargetReturn, shared
// with the frontier builder.
func (s *Service) targetReturnFrom(in Inputs, sigma *mat.SymDense, target float64, set ConstraintSet, bounds Bounds, from vectors.VecN) (*OptimalPortfolio, error) {
	n := len(in.ExpectedReturns)
	constraints, err := buildConstraints(n, set, bounds, TargetReturnConstraint(in.ExpectedReturns, target))
	if err != nil {
		return nil, err
	}
	p, err := s.solve(in, sigma, VarianceObjective(sigma), constraints, from)
	if err != nil {
		return nil, fmt.Errorf("target return %.4f: %w", target, err)
	}
	return p, nil
}

// prepare validates shapes, packs Σ, and probes positive definiteness.
// A failed Cholesky only warns: results degrade gracefully on a non-PSD
// matrix (typically via non-convergence), they do not hard-fail.
func (s *Service) prepare(in Inputs) (*mat.SymDense, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sigma := in.covMatrix()

	var chol mat.Cholesky
	if !chol.Factorize(sigma) {
		s.log.Warn().
			Int("assets", len(in.ExpectedReturns)).
			Msg("Covariance matrix is not positive definite; optimizer may not converge")
	}
	return sigma, nil
}

// solve dispatches per the embedded selection rule: any inequality in
// the set routes to the penalty-barrier optimizer, a purely equality
// set to the cheaper augmented Lagrangian.
func (s *Service) solve(in Inputs, sigma *mat.SymDense, objective optimize.Objective[vectors.VecN], constraints []optimize.Constraint[vectors.VecN], from vectors.VecN) (*OptimalPortfolio, error) {
	var minimizer optimize.Minimizer[vectors.VecN]
	if anyInequality(constraints) {
		minimizer = optimize.NewPenaltyBarrier[vectors.VecN](s.cfg, s.log)
	} else {
		minimizer = optimize.NewAugmentedLagrangian[vectors.VecN](s.cfg, s.log)
	}

	res, err := minimizer.Minimize(objective, from, constraints)
	if err != nil {
		return nil, err
	}
	if !res.Converged {
		s.log.Warn().
			Int("iterations", res.Iterations).
			Msg("Solve returned best-effort result without convergence")
	}
	return newOptimalPortfolio(in, sigma, res.Solution.Elements(), res.Converged, res.Iterations), nil
}

func (s *Service) record(method string, p *OptimalPortfolio) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordRun(method, p); err != nil {
		s.log.Warn().Err(err).Str("method", method).Msg("Failed to record optimization run")
	}
}

func anyInequality(constraints []optimize.Constraint[vectors.VecN]) bool {
	for _, c := range constraints {
		if c.Kind == optimize.Inequality {
			return true
		}
	}
	return false
}

// equalWeights is the standard initial guess: 1/n in every asset.
func equalWeights(n int) vectors.VecN {
	return vectors.Constant(n, 1/float64(n))
}
