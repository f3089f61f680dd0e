// Package portfolio translates financial inputs (expected returns,
// covariance, risk-free rate, constraint-set selector) into the generic
// optimizer's vocabulary and translates the numeric results back into
// domain terms.
package portfolio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/frontier/optimize"
)

// Inputs are the financial inputs every portfolio solve starts from.
// The covariance matrix is read-only; it is shared across iterations
// and frontier points, never copied destructively.
type Inputs struct {
	// ExpectedReturns is the per-asset expected return vector μ.
	ExpectedReturns []float64
	// Covariance is the square symmetric covariance matrix Σ.
	Covariance [][]float64
	// RiskFreeRate feeds Sharpe-ratio objectives and results.
	RiskFreeRate float64
}

// Validate checks input shapes eagerly. A returns vector whose length
// disagrees with the covariance matrix is a structural error, never a
// silent partial computation.
func (in Inputs) Validate() error {
	n := len(in.ExpectedReturns)
	if n == 0 {
		return fmt.Errorf("%w: empty expected-returns vector", optimize.ErrDimensionMismatch)
	}
	if len(in.Covariance) != n {
		return fmt.Errorf("%w: %d expected returns vs %dx%d covariance",
			optimize.ErrDimensionMismatch, n, len(in.Covariance), len(in.Covariance))
	}
	for i, row := range in.Covariance {
		if len(row) != n {
			return fmt.Errorf("%w: covariance row %d has %d columns, want %d",
				optimize.ErrDimensionMismatch, i, len(row), n)
		}
	}
	return nil
}

// covMatrix packs the covariance into a gonum symmetric matrix for the
// quadratic forms. Only the upper triangle is read.
func (in Inputs) covMatrix() *mat.SymDense {
	n := len(in.ExpectedReturns)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, in.Covariance[i][j])
		}
	}
	return sym
}

// OptimalPortfolio is the domain result of a single portfolio solve.
type OptimalPortfolio struct {
	// Weights is the solved allocation.
	Weights []float64
	// ExpectedReturn is μᵀw.
	ExpectedReturn float64
	// Volatility is sqrt(wᵀΣw).
	Volatility float64
	// SharpeRatio is (μᵀw - r_f)/volatility.
	SharpeRatio float64
	// Converged and Iterations carry the underlying solver metadata;
	// a portfolio with Converged=false is best-effort but usable.
	Converged  bool
	Iterations int
}

// newOptimalPortfolio derives the domain result from a solver result.
func newOptimalPortfolio(in Inputs, sigma *mat.SymDense, weights []float64, converged bool, iterations int) *OptimalPortfolio {
	w := mat.NewVecDense(len(weights), weights)
	mu := mat.NewVecDense(len(in.ExpectedReturns), in.ExpectedReturns)

	expected := mat.Dot(w, mu)
	variance := mat.Inner(w, sigma, w)
	volatility := math.Sqrt(math.Max(variance, 0))

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (expected - in.RiskFreeRate) / volatility
	}

	return &OptimalPortfolio{
		Weights:        weights,
		ExpectedReturn: expected,
		Volatility:     volatility,
		SharpeRatio:    sharpe,
		Converged:      converged,
		Iterations:     iterations,
	}
}

// FrontierPoint pairs a target return with the minimum-variance
// portfolio that achieves it.
type FrontierPoint struct {
	TargetReturn float64
	Portfolio    *OptimalPortfolio
}

// EfficientFrontier is an ordered collection of portfolios indexed by a
// monotonically increasing target-return grid.
type EfficientFrontier struct {
	Points []FrontierPoint
}

// MinimumVariance scans for the member with the lowest volatility.
func (ef *EfficientFrontier) MinimumVariance() *OptimalPortfolio {
	var best *OptimalPortfolio
	for _, p := range ef.Points {
		if best == nil || p.Portfolio.Volatility < best.Volatility {
			best = p.Portfolio
		}
	}
	return best
}

// MaximumSharpe scans for the member with the highest Sharpe ratio.
func (ef *EfficientFrontier) MaximumSharpe() *OptimalPortfolio {
	var best *OptimalPortfolio
	for _, p := range ef.Points {
		if best == nil || p.Portfolio.SharpeRatio > best.SharpeRatio {
			best = p.Portfolio
		}
	}
	return best
}
