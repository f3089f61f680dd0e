package portfolio

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// FrontierConfig controls efficient-frontier construction.
type FrontierConfig struct {
	// Points is the number of target returns on the grid (default 20,
	// minimum 2).
	Points int
	// Parallel computes frontier points concurrently. Each point's
	// solve is independent and shares no mutable state, so this changes
	// only wall-clock time. Parallel solves cannot warm-start, so every
	// point begins from equal weights.
	Parallel bool
}

func (fc FrontierConfig) withDefaults() FrontierConfig {
	if fc.Points < 2 {
		fc.Points = 20
	}
	return fc
}

// EfficientFrontier traces minimum-variance portfolios across a grid of
// target returns linearly spaced between the smallest and largest
// expected return (inclusive). Points come back in target-return order.
//
// Sequential construction warm-starts each point from the previous
// solution; convergence criteria are identical either way.
func (s *Service) EfficientFrontier(in Inputs, set ConstraintSet, bounds Bounds, fc FrontierConfig) (*EfficientFrontier, error) {
	fc = fc.withDefaults()
	sigma, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	targets := make([]float64, fc.Points)
	floats.Span(targets, floats.Min(in.ExpectedReturns), floats.Max(in.ExpectedReturns))

	points := make([]FrontierPoint, fc.Points)

	if fc.Parallel {
		type pointResult struct {
			idx       int
			portfolio *OptimalPortfolio
			err       error
		}
		results := make(chan pointResult, fc.Points)
		for i, target := range targets {
			go func(i int, target float64) {
				p, err := s.targetReturnFrom(in, sigma, target, set, bounds, equalWeights(len(in.ExpectedReturns)))
				results <- pointResult{idx: i, portfolio: p, err: err}
			}(i, target)
		}
		for range targets {
			res := <-results
			if res.err != nil {
				return nil, fmt.Errorf("frontier point %d: %w", res.idx, res.err)
			}
			points[res.idx] = FrontierPoint{TargetReturn: targets[res.idx], Portfolio: res.portfolio}
		}
		close(results)
	} else {
		from := equalWeights(len(in.ExpectedReturns))
		for i, target := range targets {
			p, err := s.targetReturnFrom(in, sigma, target, set, bounds, from)
			if err != nil {
				return nil, fmt.Errorf("frontier point %d: %w", i, err)
			}
			points[i] = FrontierPoint{TargetReturn: target, Portfolio: p}
			from = from.WithElements(p.Weights)
		}
	}

	s.log.Info().
		Int("points", fc.Points).
		Bool("parallel", fc.Parallel).
		Str("constraint_set", set.String()).
		Msg("Efficient frontier computed")
	return &EfficientFrontier{Points: points}, nil
}
