package formulas

import (
	"math"
	"testing"
)

func TestMeanStdDevVariance(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := Mean(data); got != 5.0 {
		t.Errorf("Mean = %v, want 5.0", got)
	}
	// Sample variance of this classic dataset is 32/7.
	if got := Variance(data); math.Abs(got-32.0/7.0) > 1e-12 {
		t.Errorf("Variance = %v, want %v", got, 32.0/7.0)
	}
	if got := StdDev(data); math.Abs(got-math.Sqrt(32.0/7.0)) > 1e-12 {
		t.Errorf("StdDev = %v, want %v", got, math.Sqrt(32.0/7.0))
	}
}

func TestEmptyInputsReturnZero(t *testing.T) {
	if Mean(nil) != 0 || StdDev(nil) != 0 || Variance(nil) != 0 {
		t.Error("Expected zero for empty inputs")
	}
	if Skewness([]float64{1, 2}) != 0 || Kurtosis([]float64{1, 2, 3}) != 0 {
		t.Error("Expected zero below minimum sample size")
	}
}

func TestSkewnessDirection(t *testing.T) {
	rightSkewed := []float64{1, 1, 1, 2, 2, 3, 10}
	if got := Skewness(rightSkewed); got <= 0 {
		t.Errorf("Skewness = %v, want positive for right-skewed data", got)
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	daily := []float64{0.01, -0.02, 0.015, -0.005, 0.01}

	want := StdDev(daily) * math.Sqrt(252)
	if got := AnnualizedVolatility(daily); math.Abs(got-want) > 1e-12 {
		t.Errorf("AnnualizedVolatility = %v, want %v", got, want)
	}
	if AnnualizedVolatility(nil) != 0 {
		t.Error("Expected zero for empty input")
	}
}

func TestUlcerIndex(t *testing.T) {
	// Flat at the peak: no drawdowns, index zero.
	flat := []float64{100, 100, 100, 100}
	ui := CalculateUlcerIndex(flat, 4)
	if ui == nil {
		t.Fatal("Expected Ulcer index, got nil")
	}
	if *ui != 0 {
		t.Errorf("UlcerIndex = %v, want 0 for flat prices", *ui)
	}

	// Constant 10% drawdown over the whole window: index is 0.10
	// diluted by the drawdown-free first sample.
	prices := []float64{100, 90, 90, 90}
	ui = CalculateUlcerIndex(prices, 4)
	if ui == nil {
		t.Fatal("Expected Ulcer index, got nil")
	}
	want := math.Sqrt(3 * 0.1 * 0.1 / 4)
	if math.Abs(*ui-want) > 1e-12 {
		t.Errorf("UlcerIndex = %v, want %v", *ui, want)
	}

	if CalculateUlcerIndex([]float64{100}, 4) != nil {
		t.Error("Expected nil when the series is shorter than the period")
	}
}

func TestCalculateReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := CalculateReturns(prices)

	if len(returns) != 2 {
		t.Fatalf("Expected 2 returns, got %d", len(returns))
	}
	if math.Abs(returns[0]-0.10) > 1e-12 {
		t.Errorf("returns[0] = %v, want 0.10", returns[0])
	}
	if math.Abs(returns[1]+0.10) > 1e-12 {
		t.Errorf("returns[1] = %v, want -0.10", returns[1])
	}
}

func TestCorrelationPerfect(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}

	if got := Correlation(x, y); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Correlation = %v, want 1.0", got)
	}
	if got := Correlation(x, []float64{1, 2}); got != 0 {
		t.Errorf("Correlation of mismatched lengths = %v, want 0", got)
	}
}

func TestSharpeRatio(t *testing.T) {
	// Constant positive excess return, tiny variance: large Sharpe.
	returns := []float64{0.01, 0.012, 0.011, 0.009, 0.01}
	sharpe := CalculateSharpeRatio(returns, 0.0, 252)
	if sharpe == nil {
		t.Fatal("Expected Sharpe ratio, got nil")
	}
	if *sharpe <= 0 {
		t.Errorf("Sharpe = %v, want positive", *sharpe)
	}

	if CalculateSharpeRatio([]float64{0.01}, 0, 252) != nil {
		t.Error("Expected nil for insufficient data")
	}
	if CalculateSharpeRatio([]float64{0.01, 0.01, 0.01}, 0, 252) != nil {
		t.Error("Expected nil for zero standard deviation")
	}
}

func TestSortinoNoDownside(t *testing.T) {
	returns := []float64{0.02, 0.03, 0.025}
	if CalculateSortinoRatio(returns, 0.0, 0.0, 252) != nil {
		t.Error("Expected nil when no returns fall below the MAR")
	}
}

func TestMaxDrawdown(t *testing.T) {
	prices := []float64{100, 120, 90, 110, 80}

	dd := CalculateMaxDrawdown(prices)
	if dd == nil {
		t.Fatal("Expected drawdown, got nil")
	}
	// Peak 120 to trough 80.
	if math.Abs(*dd-(120.0-80.0)/120.0) > 1e-12 {
		t.Errorf("MaxDrawdown = %v, want %v", *dd, 40.0/120.0)
	}
}

func TestDrawdownMetrics(t *testing.T) {
	prices := []float64{100, 120, 90, 110}

	m := CalculateDrawdownMetrics(prices)
	if m == nil {
		t.Fatal("Expected metrics, got nil")
	}
	if m.PeakValue != 120 || m.CurrentValue != 110 {
		t.Errorf("Peak/current = %v/%v, want 120/110", m.PeakValue, m.CurrentValue)
	}
	if m.DaysInDrawdown != 2 {
		t.Errorf("DaysInDrawdown = %d, want 2", m.DaysInDrawdown)
	}
}

func TestRatios(t *testing.T) {
	tests := []struct {
		name string
		got  *float64
		want float64
	}{
		{"ROI", ROI(150, 100), 0.5},
		{"CurrentRatio", CurrentRatio(200, 100), 2.0},
		{"QuickRatio", QuickRatio(200, 50, 100), 1.5},
		{"DebtToEquity", DebtToEquity(120, 60), 2.0},
		{"GrossMargin", GrossMargin(100, 40), 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == nil {
				t.Fatal("Expected value, got nil")
			}
			if math.Abs(*tt.got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", *tt.got, tt.want)
			}
		})
	}

	if ROI(1, 0) != nil || CurrentRatio(1, 0) != nil || DebtToEquity(1, 0) != nil {
		t.Error("Expected nil for zero denominators")
	}
}
