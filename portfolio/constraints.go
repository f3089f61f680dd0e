package portfolio

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/aristath/frontier/optimize"
	"github.com/aristath/frontier/pkg/vectors"
)

// ErrInfeasibleBounds reports a Bounds value that admits no weight
// vector satisfying the budget constraint. Detected eagerly at call
// entry, before any solve starts.
var ErrInfeasibleBounds = errors.New("infeasible bounds for constraint set")

// ConstraintSet selects which named constraint family a solve uses.
type ConstraintSet int

const (
	// BudgetOnly keeps Σw = 1 with no bounds; weights may go negative
	// (unbounded long-short).
	BudgetOnly ConstraintSet = iota
	// LongOnly adds per-asset non-negativity to the budget constraint.
	LongOnly
	// Boxed adds per-asset [MinWeight, MaxWeight] bounds to the budget
	// constraint.
	Boxed
	// LeverageCapped allows long-short weights with Σ|wᵢ| ≤ MaxLeverage.
	LeverageCapped
)

func (cs ConstraintSet) String() string {
	switch cs {
	case LongOnly:
		return "long_only"
	case Boxed:
		return "boxed"
	case LeverageCapped:
		return "leverage_capped"
	default:
		return "budget_only"
	}
}

// Bounds parameterizes the Boxed and LeverageCapped constraint sets.
type Bounds struct {
	MinWeight   float64
	MaxWeight   float64
	MaxLeverage float64
}

// validate checks that the bounds admit at least one fully-invested
// weight vector for the selected set. BudgetOnly and LongOnly ignore
// Bounds entirely.
func (b Bounds) validate(n int, set ConstraintSet) error {
	switch set {
	case Boxed:
		if b.MaxWeight <= b.MinWeight {
			return fmt.Errorf("%w: MaxWeight %.4f must exceed MinWeight %.4f",
				ErrInfeasibleBounds, b.MaxWeight, b.MinWeight)
		}
		if float64(n)*b.MaxWeight < 1 {
			return fmt.Errorf("%w: %d assets capped at %.4f cannot sum to 1",
				ErrInfeasibleBounds, n, b.MaxWeight)
		}
		if float64(n)*b.MinWeight > 1 {
			return fmt.Errorf("%w: %d assets floored at %.4f must sum past 1",
				ErrInfeasibleBounds, n, b.MinWeight)
		}
	case LeverageCapped:
		// Σw = 1 forces gross exposure Σ|w| ≥ 1.
		if b.MaxLeverage < 1 {
			return fmt.Errorf("%w: MaxLeverage %.4f conflicts with the budget constraint",
				ErrInfeasibleBounds, b.MaxLeverage)
		}
	}
	return nil
}

// BudgetConstraint keeps the weights fully invested: Σwᵢ - 1 = 0.
func BudgetConstraint() optimize.Constraint[vectors.VecN] {
	return optimize.EqualityConstraint(func(w vectors.VecN) float64 {
		return floats.Sum(w.Elements()) - 1
	})
}

// NonNegativityConstraints emits one inequality -wᵢ ≤ 0 per asset.
func NonNegativityConstraints(n int) []optimize.Constraint[vectors.VecN] {
	out := make([]optimize.Constraint[vectors.VecN], n)
	for i := 0; i < n; i++ {
		i := i
		out[i] = optimize.InequalityConstraint(func(w vectors.VecN) float64 {
			return -w.At(i)
		})
	}
	return out
}

// BoxConstraints emits wᵢ - max ≤ 0 and min - wᵢ ≤ 0 per asset.
func BoxConstraints(n int, min, max float64) []optimize.Constraint[vectors.VecN] {
	out := make([]optimize.Constraint[vectors.VecN], 0, 2*n)
	for i := 0; i < n; i++ {
		i := i
		out = append(out,
			optimize.InequalityConstraint(func(w vectors.VecN) float64 {
				return w.At(i) - max
			}),
			optimize.InequalityConstraint(func(w vectors.VecN) float64 {
				return min - w.At(i)
			}),
		)
	}
	return out
}

// LeverageConstraint caps gross exposure: Σ|wᵢ| - L ≤ 0.
func LeverageConstraint(limit float64) optimize.Constraint[vectors.VecN] {
	return optimize.InequalityConstraint(func(w vectors.VecN) float64 {
		total := 0.0
		for _, e := range w.Elements() {
			total += math.Abs(e)
		}
		return total - limit
	})
}

// TargetReturnConstraint pins the portfolio return: μᵀw - target = 0.
// Used repeatedly to trace the efficient frontier.
func TargetReturnConstraint(mu []float64, target float64) optimize.Constraint[vectors.VecN] {
	return optimize.EqualityConstraint(func(w vectors.VecN) float64 {
		return floats.Dot(mu, w.Elements()) - target
	})
}

// TurnoverConstraint limits the one-norm of weight changes between
// consecutive rebalances to limit: Σ|wᵢ' - wᵢ| - limit ≤ 0. It is a
// transition constraint over a weight trajectory.
func TurnoverConstraint(limit float64) optimize.MultiPeriodConstraint[vectors.VecN] {
	return optimize.TransitionConstraint[vectors.VecN](optimize.Inequality, func(prev, next vectors.VecN) float64 {
		diff := next.Sub(prev)
		total := 0.0
		for _, e := range diff.Elements() {
			total += math.Abs(e)
		}
		return total - limit
	})
}

// buildConstraints assembles the constraint list for a selector, with
// the budget equality always first so multiplier positions are stable.
func buildConstraints(n int, set ConstraintSet, bounds Bounds, extra ...optimize.Constraint[vectors.VecN]) ([]optimize.Constraint[vectors.VecN], error) {
	if err := bounds.validate(n, set); err != nil {
		return nil, err
	}
	constraints := []optimize.Constraint[vectors.VecN]{BudgetConstraint()}
	constraints = append(constraints, extra...)
	switch set {
	case LongOnly:
		constraints = append(constraints, NonNegativityConstraints(n)...)
	case Boxed:
		constraints = append(constraints, BoxConstraints(n, bounds.MinWeight, bounds.MaxWeight)...)
	case LeverageCapped:
		constraints = append(constraints, LeverageConstraint(bounds.MaxLeverage))
	}
	return constraints, nil
}
