package skewt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// MinFitSize is the smallest sample for which a fit is attempted. A bivariate
// skew-t carries up to nine free parameters; below this floor the likelihood
// surface is degenerate and the optimizer stalls until the deadline.
const MinFitSize = 8

// FitTimeout bounds each fitting attempt.
const FitTimeout = 120 * time.Second

// ErrFitFailed reports that a fitting attempt did not produce a usable model.
var ErrFitFailed = errors.New("skewt: fit failed")

// Fit fits a skew-t model to data (one row per observation, one or two
// columns) by maximum likelihood. The shape is first pinned to zero; if that
// attempt fails or exceeds its deadline, one retry is made with the shape
// free under a fresh deadline. Cancellation of ctx aborts whichever attempt
// is running.
func Fit(ctx context.Context, data *mat.Dense) (*Model, error) {
	n, d := data.Dims()
	if d != 1 && d != 2 {
		return nil, fmt.Errorf("skewt: data must have 1 or 2 columns, got %d", d)
	}
	if n < MinFitSize {
		return nil, fmt.Errorf("%w: %d observations is below the floor of %d", ErrFitFailed, n, MinFitSize)
	}

	m, err := fitOnce(ctx, data, true)
	if err == nil {
		return m, nil
	}

	return fitOnce(ctx, data, false)
}

// fitOnce runs one deadline-bounded Nelder-Mead maximization of the
// log-likelihood, started from moment estimates. symmetric pins the shape
// parameters at zero.
func fitOnce(ctx context.Context, data *mat.Dense, symmetric bool) (*Model, error) {
	ctx, cancel := context.WithTimeout(ctx, FitTimeout)
	defer cancel()

	n, d := data.Dims()

	x0 := initialTheta(data)
	if !symmetric {
		x0 = append(x0, make([]float64, d)...) // shape starts at zero
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, data)
	}

	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			m, err := unpackTheta(theta, d, symmetric)
			if err != nil {
				return math.Inf(1)
			}
			nll := 0.0
			for _, row := range rows {
				ld := m.LogDensity(row)
				if math.IsNaN(ld) || math.IsInf(ld, 1) {
					return math.Inf(1)
				}
				nll -= ld
			}
			if math.IsNaN(nll) {
				return math.Inf(1)
			}
			return nll
		},
		Status: func() (optimize.Status, error) {
			select {
			case <-ctx.Done():
				return optimize.Failure, ctx.Err()
			default:
				return optimize.NotTerminated, nil
			}
		},
	}

	settings := &optimize.Settings{
		MajorIterations: 5000,
		FuncEvaluations: 25000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 250,
		},
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFitFailed, err)
	}
	if math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return nil, fmt.Errorf("%w: optimizer left the support", ErrFitFailed)
	}

	return unpackTheta(result.X, d, symmetric)
}

// initialTheta packs moment-based starting values: the sample mean, the
// Cholesky factor of the sample covariance, and nu = 10.
func initialTheta(data *mat.Dense) []float64 {
	n, d := data.Dims()

	mean := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, data)
		mean[j] = stat.Mean(col, nil)
	}

	cov := mat.NewSymDense(d, nil)
	stat.CovarianceMatrix(cov, data, nil)

	theta := append([]float64{}, mean...)
	switch d {
	case 1:
		v := cov.At(0, 0)
		if v <= 0 {
			v = 1e-6
		}
		theta = append(theta, 0.5*math.Log(v))
	case 2:
		a, b, c := cov.At(0, 0), cov.At(0, 1), cov.At(1, 1)
		if a <= 0 {
			a = 1e-6
		}
		l11 := math.Sqrt(a)
		l21 := b / l11
		s := c - l21*l21
		if s <= 0 {
			s = 1e-6
		}
		theta = append(theta, math.Log(l11), l21, 0.5*math.Log(s))
	}

	return append(theta, math.Log(10)) // log nu
}

// unpackTheta rebuilds a Model from the optimizer's parameter vector:
// location (d), log-diagonal Cholesky factor of the scale, log nu, and the
// shape (d) when not symmetric.
func unpackTheta(theta []float64, d int, symmetric bool) (*Model, error) {
	want := d + cholParams(d) + 1
	if !symmetric {
		want += d
	}
	if len(theta) != want {
		return nil, fmt.Errorf("skewt: parameter vector has %d entries, want %d", len(theta), want)
	}

	xi := append([]float64{}, theta[:d]...)
	k := d

	omega := mat.NewSymDense(d, nil)
	switch d {
	case 1:
		l11 := math.Exp(theta[k])
		omega.SetSym(0, 0, l11*l11)
		k++
	case 2:
		l11 := math.Exp(theta[k])
		l21 := theta[k+1]
		l22 := math.Exp(theta[k+2])
		omega.SetSym(0, 0, l11*l11)
		omega.SetSym(0, 1, l11*l21)
		omega.SetSym(1, 1, l21*l21+l22*l22)
		k += 3
	}

	nu := math.Exp(theta[k])
	k++

	alpha := make([]float64, d)
	if !symmetric {
		copy(alpha, theta[k:])
	}

	return NewModel(xi, omega, alpha, nu)
}

func cholParams(d int) int {
	if d == 1 {
		return 1
	}
	return 3
}
