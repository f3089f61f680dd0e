package optimize

import "github.com/aristath/frontier/pkg/vectors"

// PeriodKind selects how a multi-period constraint is applied to a
// trajectory of points.
type PeriodKind int

const (
	// PerPeriod evaluates the constraint independently at every point.
	PerPeriod PeriodKind = iota
	// Transition evaluates the constraint on each consecutive pair of
	// points (turnover limits and the like).
	Transition
	// Terminal evaluates the constraint on the last point only.
	Terminal
	// Trajectory evaluates the constraint once over the whole sequence
	// (average or cumulative metrics).
	Trajectory
)

// MultiPeriodConstraint applies a scalar constraint across a trajectory
// of decision points rather than a single point. Exactly one of the
// function fields is used, matching PeriodKind.
type MultiPeriodConstraint[V vectors.Vector[V]] struct {
	Kind       Kind
	PeriodKind PeriodKind

	// PointFn serves PerPeriod and Terminal constraints.
	PointFn func(V) float64
	// PairFn serves Transition constraints; arguments are consecutive
	// points in order.
	PairFn func(prev, next V) float64
	// PathFn serves Trajectory constraints.
	PathFn func(path []V) float64
}

// PerPeriodConstraint applies fn independently at every period.
func PerPeriodConstraint[V vectors.Vector[V]](kind Kind, fn func(V) float64) MultiPeriodConstraint[V] {
	return MultiPeriodConstraint[V]{Kind: kind, PeriodKind: PerPeriod, PointFn: fn}
}

// TransitionConstraint applies fn to each consecutive pair of periods.
func TransitionConstraint[V vectors.Vector[V]](kind Kind, fn func(prev, next V) float64) MultiPeriodConstraint[V] {
	return MultiPeriodConstraint[V]{Kind: kind, PeriodKind: Transition, PairFn: fn}
}

// TerminalConstraint applies fn to the final period only.
func TerminalConstraint[V vectors.Vector[V]](kind Kind, fn func(V) float64) MultiPeriodConstraint[V] {
	return MultiPeriodConstraint[V]{Kind: kind, PeriodKind: Terminal, PointFn: fn}
}

// TrajectoryConstraint applies fn once over the whole path.
func TrajectoryConstraint[V vectors.Vector[V]](kind Kind, fn func(path []V) float64) MultiPeriodConstraint[V] {
	return MultiPeriodConstraint[V]{Kind: kind, PeriodKind: Trajectory, PathFn: fn}
}

// Residuals evaluates the constraint over path and returns one residual
// per application point.
func (m MultiPeriodConstraint[V]) Residuals(path []V) []float64 {
	switch m.PeriodKind {
	case PerPeriod:
		out := make([]float64, len(path))
		for i, p := range path {
			out[i] = m.PointFn(p)
		}
		return out
	case Transition:
		if len(path) < 2 {
			return nil
		}
		out := make([]float64, len(path)-1)
		for i := 1; i < len(path); i++ {
			out[i-1] = m.PairFn(path[i-1], path[i])
		}
		return out
	case Terminal:
		if len(path) == 0 {
			return nil
		}
		return []float64{m.PointFn(path[len(path)-1])}
	default:
		return []float64{m.PathFn(path)}
	}
}

// IsSatisfied reports whether every residual over path meets the
// feasibility rule for the constraint kind within tolerance.
func (m MultiPeriodConstraint[V]) IsSatisfied(path []V, tolerance float64) bool {
	for _, r := range m.Residuals(path) {
		if m.Kind == Equality {
			if r > tolerance || r < -tolerance {
				return false
			}
		} else if r > tolerance {
			return false
		}
	}
	return true
}

// Flatten expands the multi-period constraint into single-point
// constraints over a trajectory that has been packed into one decision
// vector of dim*periods elements. This lets the single-period solvers
// handle multi-period problems unchanged.
func (m MultiPeriodConstraint[V]) Flatten(dim, periods int) []Constraint[vectors.VecN] {
	unpack := func(x vectors.VecN) []vectors.VecN {
		elems := x.Elements()
		path := make([]vectors.VecN, periods)
		for p := 0; p < periods; p++ {
			path[p] = vectors.NewVecN(elems[p*dim : (p+1)*dim])
		}
		return path
	}

	pointAt := func(idx int, fn func(vectors.VecN) float64) Constraint[vectors.VecN] {
		return Constraint[vectors.VecN]{Kind: m.Kind, Fn: func(x vectors.VecN) float64 {
			return fn(unpack(x)[idx])
		}}
	}

	// The VecN-level functions mirror the generic ones through Elements.
	toVecN := func(fn func(V) float64) func(vectors.VecN) float64 {
		return func(p vectors.VecN) float64 {
			var proto V
			return fn(proto.WithElements(p.Elements()))
		}
	}

	switch m.PeriodKind {
	case PerPeriod:
		out := make([]Constraint[vectors.VecN], periods)
		for p := 0; p < periods; p++ {
			out[p] = pointAt(p, toVecN(m.PointFn))
		}
		return out
	case Transition:
		out := make([]Constraint[vectors.VecN], 0, periods-1)
		for p := 1; p < periods; p++ {
			p := p
			out = append(out, Constraint[vectors.VecN]{Kind: m.Kind, Fn: func(x vectors.VecN) float64 {
				path := unpack(x)
				var prev, next V
				prev = prev.WithElements(path[p-1].Elements())
				next = next.WithElements(path[p].Elements())
				return m.PairFn(prev, next)
			}})
		}
		return out
	case Terminal:
		return []Constraint[vectors.VecN]{pointAt(periods-1, toVecN(m.PointFn))}
	default:
		return []Constraint[vectors.VecN]{{Kind: m.Kind, Fn: func(x vectors.VecN) float64 {
			raw := unpack(x)
			path := make([]V, len(raw))
			var proto V
			for i, p := range raw {
				path[i] = proto.WithElements(p.Elements())
			}
			return m.PathFn(path)
		}}}
	}
}
