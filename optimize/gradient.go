package optimize

import (
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/frontier/pkg/vectors"
)

// Gradient approximates the gradient of f at x by symmetric central
// differences with step h. The step trades truncation error against
// round-off; the package default is DefaultGradientStep.
func Gradient[V vectors.Vector[V]](f Objective[V], x V, h float64) V {
	elems := x.Elements()
	grad := make([]float64, len(elems))
	for i := range elems {
		orig := elems[i]
		elems[i] = orig + h
		fp := f(x.WithElements(elems))
		elems[i] = orig - h
		fm := f(x.WithElements(elems))
		elems[i] = orig
		grad[i] = (fp - fm) / (2 * h)
	}
	return x.WithElements(grad)
}

// gradientOf prefers an analytic gradient when one is supplied and
// falls back to central differences.
func gradientOf[V vectors.Vector[V]](analytic func(V) V, f Objective[V], x V, h float64) V {
	if analytic != nil {
		return analytic(x)
	}
	return Gradient(f, x, h)
}

// Hessian approximates the Hessian of f at x by symmetric second
// differences with step h, returned as a symmetric dense matrix. Second
// differences amplify round-off, so h should be larger than the
// gradient step (DefaultHessianStep).
func Hessian[V vectors.Vector[V]](f Objective[V], x V, h float64) *mat.SymDense {
	n := x.Len()
	elems := x.Elements()
	hess := mat.NewSymDense(n, nil)

	at := func(di, dj int, si, sj float64) float64 {
		elems[di] += si * h
		elems[dj] += sj * h
		v := f(x.WithElements(elems))
		elems[dj] -= sj * h
		elems[di] -= si * h
		return v
	}

	f0 := f(x)
	for i := 0; i < n; i++ {
		// Diagonal: (f(x+h) - 2f(x) + f(x-h)) / h².
		fp := at(i, i, 1, 0)
		fm := at(i, i, -1, 0)
		hess.SetSym(i, i, (fp-2*f0+fm)/(h*h))
		for j := i + 1; j < n; j++ {
			fpp := at(i, j, 1, 1)
			fpm := at(i, j, 1, -1)
			fmp := at(i, j, -1, 1)
			fmm := at(i, j, -1, -1)
			hess.SetSym(i, j, (fpp-fpm-fmp+fmm)/(4*h*h))
		}
	}
	return hess
}
