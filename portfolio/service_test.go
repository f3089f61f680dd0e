package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/frontier/optimize"
	"github.com/aristath/frontier/pkg/logger"
)

func testService() *Service {
	return NewService(optimize.Config{}, logger.Nop())
}

func twoAssetInputs() Inputs {
	return Inputs{
		ExpectedReturns: []float64{0.08, 0.12},
		Covariance: [][]float64{
			{0.04, 0.01},
			{0.01, 0.09},
		},
		RiskFreeRate: 0.02,
	}
}

func weightSum(weights []float64) float64 {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	return sum
}

func TestMinimumVarianceTwoAssets(t *testing.T) {
	s := testService()
	p, err := s.MinimumVariance(twoAssetInputs(), BudgetOnly, Bounds{})
	require.NoError(t, err)

	// Weight-sum invariant.
	assert.InDelta(t, 1.0, weightSum(p.Weights), 0.01)

	// The minimum-variance portfolio cannot be riskier than either pure
	// single-asset portfolio (vols 0.2 and 0.3).
	assert.LessOrEqual(t, p.Volatility, 0.2)
	assert.LessOrEqual(t, p.Volatility, 0.3)

	// Closed form: w1 = (σ2² - σ12)/(σ1² + σ2² - 2σ12) = 0.08/0.11.
	assert.InDelta(t, 0.08/0.11, p.Weights[0], 0.01)
	assert.True(t, p.Converged)
}

func TestMinimumVarianceLongOnly(t *testing.T) {
	s := testService()
	p, err := s.MinimumVariance(twoAssetInputs(), LongOnly, Bounds{})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, weightSum(p.Weights), 0.01)
	for i, w := range p.Weights {
		assert.GreaterOrEqual(t, w, -0.01, "weight %d should be non-negative", i)
	}
}

func TestMaximumSharpePositiveExcessReturn(t *testing.T) {
	s := testService()
	p, err := s.MaximumSharpe(twoAssetInputs(), LongOnly, Bounds{})
	require.NoError(t, err)

	// Both assets return strictly more than the risk-free 2%.
	assert.Greater(t, p.SharpeRatio, 0.0)
	assert.InDelta(t, 1.0, weightSum(p.Weights), 0.01)
}

func TestRiskParityEqualContributions(t *testing.T) {
	s := testService()
	in := Inputs{
		ExpectedReturns: []float64{0.07, 0.09, 0.11},
		Covariance: [][]float64{
			{0.01, 0, 0},
			{0, 0.04, 0},
			{0, 0, 0.09},
		},
	}

	p, err := s.RiskParity(in, BudgetOnly, Bounds{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, weightSum(p.Weights), 0.01)

	// Every asset's risk contribution must sit within 5% of the equal
	// share σ/n.
	contributions := RiskContributions(in.covMatrix(), p.Weights)
	target := p.Volatility / 3
	for i, c := range contributions {
		assert.InDelta(t, target, c, 0.05*p.Volatility, "contribution %d", i)
	}

	// Zero cross-covariance risk parity is ∝ 1/σ: weights ordered
	// inversely to volatility.
	assert.Greater(t, p.Weights[0], p.Weights[1])
	assert.Greater(t, p.Weights[1], p.Weights[2])
}

func TestDegenerateSymmetricAssets(t *testing.T) {
	s := testService()
	in := Inputs{
		ExpectedReturns: []float64{0.08, 0.08, 0.08},
		Covariance: [][]float64{
			{0.04, 0, 0},
			{0, 0.04, 0},
			{0, 0, 0.04},
		},
	}

	p, err := s.MinimumVariance(in, BudgetOnly, Bounds{})
	require.NoError(t, err)

	// Three identical assets must split close to 1/3 each.
	for i, w := range p.Weights {
		assert.InDelta(t, 1.0/3.0, w, 0.1, "weight %d", i)
	}
}

func TestTargetReturnTracksTarget(t *testing.T) {
	s := testService()
	target := 0.10

	p, err := s.TargetReturn(twoAssetInputs(), target, BudgetOnly, Bounds{})
	require.NoError(t, err)

	assert.InDelta(t, target, p.ExpectedReturn, 1e-3)
	assert.InDelta(t, 1.0, weightSum(p.Weights), 0.01)

	// Two equalities (budget + target) on a convex quadratic: the solve
	// must report convergence in a handful of outer iterations, not
	// exhaust the budget on an essentially exact solution.
	assert.True(t, p.Converged)
	assert.Less(t, p.Iterations, 30)
}

func TestInfeasibleBoundsRejected(t *testing.T) {
	s := testService()

	tests := []struct {
		name   string
		set    ConstraintSet
		bounds Bounds
	}{
		{name: "boxed zero bounds", set: Boxed, bounds: Bounds{}},
		{name: "boxed cap below budget", set: Boxed, bounds: Bounds{MaxWeight: 0.4}},
		{name: "boxed floor above budget", set: Boxed, bounds: Bounds{MinWeight: 0.6, MaxWeight: 0.9}},
		{name: "leverage zero bounds", set: LeverageCapped, bounds: Bounds{}},
		{name: "leverage below budget", set: LeverageCapped, bounds: Bounds{MaxLeverage: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.MinimumVariance(twoAssetInputs(), tt.set, tt.bounds)
			assert.ErrorIs(t, err, ErrInfeasibleBounds)
		})
	}
}

func TestBoxedBoundsRespected(t *testing.T) {
	s := testService()

	p, err := s.MinimumVariance(twoAssetInputs(), Boxed, Bounds{MinWeight: 0.2, MaxWeight: 0.8})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, weightSum(p.Weights), 0.01)
	for i, w := range p.Weights {
		assert.GreaterOrEqual(t, w, 0.19, "weight %d below floor", i)
		assert.LessOrEqual(t, w, 0.81, "weight %d above cap", i)
	}
}

func TestDimensionMismatchRejected(t *testing.T) {
	s := testService()

	tests := []struct {
		name string
		in   Inputs
	}{
		{
			name: "returns longer than covariance",
			in: Inputs{
				ExpectedReturns: []float64{0.08, 0.12, 0.10},
				Covariance:      [][]float64{{0.04, 0.01}, {0.01, 0.09}},
			},
		},
		{
			name: "ragged covariance row",
			in: Inputs{
				ExpectedReturns: []float64{0.08, 0.12},
				Covariance:      [][]float64{{0.04, 0.01}, {0.01}},
			},
		},
		{
			name: "empty returns",
			in:   Inputs{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.MinimumVariance(tt.in, BudgetOnly, Bounds{})
			assert.ErrorIs(t, err, optimize.ErrDimensionMismatch)
		})
	}
}

func TestSolveIsDeterministic(t *testing.T) {
	s := testService()

	first, err := s.MinimumVariance(twoAssetInputs(), BudgetOnly, Bounds{})
	require.NoError(t, err)
	second, err := s.MinimumVariance(twoAssetInputs(), BudgetOnly, Bounds{})
	require.NoError(t, err)

	// No random sampling anywhere: identical inputs give bit-for-bit
	// identical results.
	assert.Equal(t, first, second)
}

func TestNonPSDCovarianceDoesNotHardFail(t *testing.T) {
	s := testService()
	in := Inputs{
		ExpectedReturns: []float64{0.08, 0.12},
		// Correlation magnitude > 1: not a valid covariance matrix.
		Covariance: [][]float64{
			{0.04, 0.10},
			{0.10, 0.09},
		},
	}

	p, err := s.MinimumVariance(in, BudgetOnly, Bounds{})
	// Graceful degradation: a best-effort portfolio, never an error.
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestOptimalPortfolioDerivedFields(t *testing.T) {
	in := twoAssetInputs()
	sigma := in.covMatrix()
	weights := []float64{0.6, 0.4}

	p := newOptimalPortfolio(in, sigma, weights, true, 7)

	wantReturn := 0.6*0.08 + 0.4*0.12
	wantVariance := 0.36*0.04 + 0.16*0.09 + 2*0.6*0.4*0.01
	assert.InDelta(t, wantReturn, p.ExpectedReturn, 1e-12)
	assert.InDelta(t, math.Sqrt(wantVariance), p.Volatility, 1e-12)
	assert.InDelta(t, (wantReturn-0.02)/math.Sqrt(wantVariance), p.SharpeRatio, 1e-12)
	assert.True(t, p.Converged)
	assert.Equal(t, 7, p.Iterations)
}

type captureRecorder struct {
	methods []string
}

func (c *captureRecorder) RecordRun(method string, p *OptimalPortfolio) error {
	c.methods = append(c.methods, method)
	return nil
}

func TestServiceRecordsRuns(t *testing.T) {
	s := testService()
	rec := &captureRecorder{}
	s.SetRecorder(rec)

	_, err := s.MinimumVariance(twoAssetInputs(), BudgetOnly, Bounds{})
	require.NoError(t, err)
	_, err = s.MaximumSharpe(twoAssetInputs(), LongOnly, Bounds{})
	require.NoError(t, err)

	assert.Equal(t, []string{"minimum_variance", "maximum_sharpe"}, rec.methods)
}
