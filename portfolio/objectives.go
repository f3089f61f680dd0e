package portfolio

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/frontier/optimize"
	"github.com/aristath/frontier/pkg/vectors"
)

// Sentinel objective value returned instead of Inf/NaN when volatility
// collapses to zero, keeping finite-difference gradients well-defined.
const degenerateSharpeValue = 1e10

// VarianceObjective builds f(w) = wᵀΣw. Minimizing variance instead of
// volatility avoids the non-differentiable square root at w=0 and is
// equivalent since sqrt is monotonic.
func VarianceObjective(sigma *mat.SymDense) optimize.Objective[vectors.VecN] {
	return func(w vectors.VecN) float64 {
		wv := mat.NewVecDense(w.Len(), w.Elements())
		return mat.Inner(wv, sigma, wv)
	}
}

// NegativeSharpeObjective builds f(w) = -(μᵀw - r_f)/sqrt(wᵀΣw).
// Near-zero volatility returns a large sentinel rather than Inf/NaN.
func NegativeSharpeObjective(mu []float64, sigma *mat.SymDense, riskFreeRate float64) optimize.Objective[vectors.VecN] {
	muVec := mat.NewVecDense(len(mu), mu)
	return func(w vectors.VecN) float64 {
		wv := mat.NewVecDense(w.Len(), w.Elements())
		variance := mat.Inner(wv, sigma, wv)
		if variance < 1e-12 {
			return degenerateSharpeValue
		}
		excess := mat.Dot(wv, muVec) - riskFreeRate
		return -excess / math.Sqrt(variance)
	}
}

// RiskParityObjective builds the sum of squared deviations of each
// asset's marginal risk contribution wᵢ·(Σw)ᵢ/σ from the equal-share
// target σ/n. The objective is zero exactly at the risk-parity point
// and strictly positive elsewhere.
func RiskParityObjective(sigma *mat.SymDense) optimize.Objective[vectors.VecN] {
	return func(w vectors.VecN) float64 {
		n := w.Len()
		wv := mat.NewVecDense(n, w.Elements())
		variance := mat.Inner(wv, sigma, wv)
		if variance < 1e-12 {
			return degenerateSharpeValue
		}
		vol := math.Sqrt(variance)
		target := vol / float64(n)

		sigmaW := mat.NewVecDense(n, nil)
		sigmaW.MulVec(sigma, wv)

		total := 0.0
		for i := 0; i < n; i++ {
			contribution := wv.AtVec(i) * sigmaW.AtVec(i) / vol
			d := contribution - target
			total += d * d
		}
		return total
	}
}

// RiskContributions returns each asset's marginal risk contribution
// wᵢ·(Σw)ᵢ/σ at weights w. The contributions sum to the portfolio
// volatility.
func RiskContributions(sigma *mat.SymDense, weights []float64) []float64 {
	n := len(weights)
	wv := mat.NewVecDense(n, weights)
	variance := mat.Inner(wv, sigma, wv)
	out := make([]float64, n)
	if variance <= 0 {
		return out
	}
	vol := math.Sqrt(variance)

	sigmaW := mat.NewVecDense(n, nil)
	sigmaW.MulVec(sigma, wv)
	for i := 0; i < n; i++ {
		out[i] = wv.AtVec(i) * sigmaW.AtVec(i) / vol
	}
	return out
}
