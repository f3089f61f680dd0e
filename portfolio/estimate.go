package portfolio

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/frontier/optimize"
	"github.com/aristath/frontier/pkg/formulas"
)

// EstimateInputs builds optimizer inputs from per-asset price
// histories: simple mean periodic returns and the sample covariance
// matrix. All histories must have the same length.
func EstimateInputs(prices [][]float64, riskFreeRate float64) (Inputs, error) {
	returns, err := assetReturns(prices)
	if err != nil {
		return Inputs{}, err
	}

	n := len(returns)
	mu := make([]float64, n)
	for i, r := range returns {
		mu[i] = stat.Mean(r, nil)
	}

	cov := make([][]float64, n)
	for i := range cov {
		cov[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			c := stat.Covariance(returns[i], returns[j], nil)
			cov[i][j] = c
			cov[j][i] = c
		}
	}

	return Inputs{ExpectedReturns: mu, Covariance: cov, RiskFreeRate: riskFreeRate}, nil
}

// ExponentialExpectedReturns estimates per-asset expected returns as
// the exponential moving average of periodic returns over the given
// span, weighting recent observations more heavily than a simple mean.
func ExponentialExpectedReturns(prices [][]float64, span int) ([]float64, error) {
	returns, err := assetReturns(prices)
	if err != nil {
		return nil, err
	}

	mu := make([]float64, len(returns))
	for i, r := range returns {
		if len(r) < span {
			return nil, fmt.Errorf("asset %d: %d returns, need at least the EMA span %d", i, len(r), span)
		}
		ema := talib.Ema(r, span)
		mu[i] = ema[len(ema)-1]
	}
	return mu, nil
}

// assetReturns converts price histories to periodic return series and
// validates shapes.
func assetReturns(prices [][]float64) ([][]float64, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: no price histories", optimize.ErrDimensionMismatch)
	}
	length := len(prices[0])
	if length < 2 {
		return nil, fmt.Errorf("%w: need at least 2 prices per asset", optimize.ErrDimensionMismatch)
	}

	returns := make([][]float64, len(prices))
	for i, series := range prices {
		if len(series) != length {
			return nil, fmt.Errorf("%w: asset %d has %d prices, want %d",
				optimize.ErrDimensionMismatch, i, len(series), length)
		}
		returns[i] = formulas.CalculateReturns(series)
	}
	return returns, nil
}
