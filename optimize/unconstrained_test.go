package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/frontier/pkg/logger"
	"github.com/aristath/frontier/pkg/vectors"
)

// Shifted convex quadratic with minimum at (1, -2).
func quadratic(x vectors.Vec2) float64 {
	dx := x.X - 1
	dy := x.Y + 2
	return dx*dx + 3*dy*dy
}

func TestGradientCentralDifference(t *testing.T) {
	g := Gradient(quadratic, vectors.Vec2{X: 2, Y: 0}, DefaultGradientStep)
	// Analytic gradient at (2, 0) is (2, 12).
	assert.InDelta(t, 2.0, g.X, 1e-4)
	assert.InDelta(t, 12.0, g.Y, 1e-4)
}

func TestHessianOfQuadratic(t *testing.T) {
	h := Hessian(quadratic, vectors.Vec2{X: 0.3, Y: 0.7}, DefaultHessianStep)
	assert.InDelta(t, 2.0, h.At(0, 0), 1e-3)
	assert.InDelta(t, 6.0, h.At(1, 1), 1e-3)
	assert.InDelta(t, 0.0, h.At(0, 1), 1e-3)
}

func TestGradientDescentQuadratic(t *testing.T) {
	gd := NewGradientDescent[vectors.Vec2](Config{LearningRate: 0.1, MaxIterations: 5000}, logger.Nop())
	res, err := gd.Minimize(quadratic, vectors.Vec2{X: 5, Y: 5}, nil)

	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 1.0, res.Solution.X, 1e-4)
	assert.InDelta(t, -2.0, res.Solution.Y, 1e-4)
}

func TestMomentumQuadratic(t *testing.T) {
	md := NewMomentumDescent[vectors.Vec2](Config{LearningRate: 0.02, MaxIterations: 5000}, logger.Nop())
	res, err := md.Minimize(quadratic, vectors.Vec2{X: 5, Y: 5}, nil)

	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 1.0, res.Solution.X, 1e-4)
	assert.InDelta(t, -2.0, res.Solution.Y, 1e-4)
}

func TestAdamQuadratic(t *testing.T) {
	adam := NewAdam[vectors.Vec2](Config{LearningRate: 0.05, MaxIterations: 20000, Tolerance: 1e-5}, logger.Nop())
	res, err := adam.Minimize(quadratic, vectors.Vec2{X: 5, Y: 5}, nil)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Solution.X, 1e-2)
	assert.InDelta(t, -2.0, res.Solution.Y, 1e-2)
}

func TestNewtonQuadraticConvergesFast(t *testing.T) {
	nw := NewNewton[vectors.Vec2](Config{}, logger.Nop())
	res, err := nw.Minimize(quadratic, vectors.Vec2{X: 5, Y: 5}, nil)

	require.NoError(t, err)
	assert.True(t, res.Converged)
	// Quadratic convergence: a handful of steps at most.
	assert.Less(t, res.Iterations, 10)
	assert.InDelta(t, 1.0, res.Solution.X, 1e-4)
	assert.InDelta(t, -2.0, res.Solution.Y, 1e-4)
}

func TestBFGSQuadratic(t *testing.T) {
	b := NewBFGS[vectors.Vec2](Config{}, logger.Nop())
	res, err := b.Minimize(quadratic, vectors.Vec2{X: 5, Y: 5}, nil)

	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 1.0, res.Solution.X, 1e-4)
	assert.InDelta(t, -2.0, res.Solution.Y, 1e-4)
}

func TestBFGSNonConvexRegionFallsBack(t *testing.T) {
	// Saddle-shaped start: x² - y² has negative curvature in y. The
	// solver must not error; it may simply fail to converge within the
	// budget while the objective keeps decreasing.
	saddle := func(x vectors.Vec2) float64 { return x.X*x.X - x.Y*x.Y }
	b := NewBFGS[vectors.Vec2](Config{MaxIterations: 50}, logger.Nop())

	res, err := b.Minimize(saddle, vectors.Vec2{X: 1, Y: 0.1}, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, saddle(res.Solution), saddle(vectors.Vec2{X: 1, Y: 0.1}))
}

func TestAnalyticGradientIsUsed(t *testing.T) {
	calls := 0
	grad := func(x vectors.Vec2) vectors.Vec2 {
		calls++
		return vectors.Vec2{X: 2 * (x.X - 1), Y: 6 * (x.Y + 2)}
	}

	b := NewBFGS[vectors.Vec2](Config{}, logger.Nop())
	b.Grad = grad
	res, err := b.Minimize(quadratic, vectors.Vec2{X: 5, Y: 5}, nil)

	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Greater(t, calls, 0)
	assert.InDelta(t, 1.0, res.Solution.X, 1e-4)
	assert.InDelta(t, -2.0, res.Solution.Y, 1e-4)
}

func TestAnalyticGradientDescent(t *testing.T) {
	gd := NewGradientDescent[vectors.Vec2](Config{LearningRate: 0.1, MaxIterations: 5000}, logger.Nop())
	gd.Grad = func(x vectors.Vec2) vectors.Vec2 {
		return vectors.Vec2{X: 2 * (x.X - 1), Y: 6 * (x.Y + 2)}
	}

	res, err := gd.Minimize(quadratic, vectors.Vec2{X: 5, Y: 5}, nil)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, 1.0, res.Solution.X, 1e-4)
	assert.InDelta(t, -2.0, res.Solution.Y, 1e-4)
}

func TestUnconstrainedSolversRejectConstraints(t *testing.T) {
	budget := EqualityConstraint(func(x vectors.Vec2) float64 { return x.X + x.Y - 1 })

	solvers := map[string]Minimizer[vectors.Vec2]{
		"gradient_descent": NewGradientDescent[vectors.Vec2](Config{}, logger.Nop()),
		"momentum":         NewMomentumDescent[vectors.Vec2](Config{}, logger.Nop()),
		"adam":             NewAdam[vectors.Vec2](Config{}, logger.Nop()),
		"newton":           NewNewton[vectors.Vec2](Config{}, logger.Nop()),
		"bfgs":             NewBFGS[vectors.Vec2](Config{}, logger.Nop()),
	}

	for name, solver := range solvers {
		t.Run(name, func(t *testing.T) {
			_, err := solver.Minimize(quadratic, vectors.Vec2{}, []Constraint[vectors.Vec2]{budget})
			assert.ErrorIs(t, err, ErrConstraintsUnsupported)
		})
	}
}

func TestMinimizeIsDeterministic(t *testing.T) {
	b := NewBFGS[vectors.Vec2](Config{}, logger.Nop())

	first, err := b.Minimize(quadratic, vectors.Vec2{X: 3, Y: -4}, nil)
	require.NoError(t, err)
	second, err := b.Minimize(quadratic, vectors.Vec2{X: 3, Y: -4}, nil)
	require.NoError(t, err)

	// No randomness anywhere: results are bit-for-bit identical.
	assert.Equal(t, first, second)
}
