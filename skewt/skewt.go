// Package skewt implements the Azzalini skew-t distribution in one and two
// dimensions: density evaluation, maximum-likelihood fitting with a hard
// per-attempt deadline, and extraction of density-contour classification
// thresholds.
package skewt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model is a fitted skew-t distribution over one or two dimensions. Alpha all
// zero means the symmetric (plain multivariate t) special case.
type Model struct {
	Dim   int
	Xi    []float64     // location
	Omega *mat.SymDense // scale matrix
	Alpha []float64     // shape
	Nu    float64       // degrees of freedom

	// Cholesky factor of Omega, cached for density evaluation.
	l11, l21, l22 float64
	omegaBar      []float64 // sqrt of the Omega diagonal
	logDetOmega   float64
}

// NewModel validates the parameters and precomputes the density caches. Omega
// must be symmetric positive definite and Nu positive.
func NewModel(xi []float64, omega *mat.SymDense, alpha []float64, nu float64) (*Model, error) {
	d := len(xi)
	if d != 1 && d != 2 {
		return nil, fmt.Errorf("skewt: dimension must be 1 or 2, got %d", d)
	}
	if r, _ := omega.Dims(); r != d {
		return nil, fmt.Errorf("skewt: scale matrix is %dx%d for a %d-dimensional model", r, r, d)
	}
	if len(alpha) != d {
		return nil, fmt.Errorf("skewt: shape has %d entries for a %d-dimensional model", len(alpha), d)
	}
	if nu <= 0 || math.IsInf(nu, 0) || math.IsNaN(nu) {
		return nil, fmt.Errorf("skewt: degrees of freedom %v out of range", nu)
	}

	m := &Model{
		Dim:   d,
		Xi:    xi,
		Omega: omega,
		Alpha: alpha,
		Nu:    nu,
	}

	a := omega.At(0, 0)
	if a <= 0 {
		return nil, fmt.Errorf("skewt: scale matrix is not positive definite")
	}
	m.l11 = math.Sqrt(a)
	m.omegaBar = []float64{m.l11}
	m.logDetOmega = math.Log(a)

	if d == 2 {
		b, c := omega.At(0, 1), omega.At(1, 1)
		m.l21 = b / m.l11
		s := c - m.l21*m.l21
		if s <= 0 {
			return nil, fmt.Errorf("skewt: scale matrix is not positive definite")
		}
		m.l22 = math.Sqrt(s)
		m.omegaBar = []float64{m.l11, math.Sqrt(c)}
		m.logDetOmega = math.Log(a) + math.Log(s)
	}

	return m, nil
}

// LogDensity evaluates the log density at x, which must have Dim entries.
// Returns -Inf where the density underflows.
func (m *Model) LogDensity(x []float64) float64 {
	nu := m.Nu
	d := float64(m.Dim)

	var q, w float64
	switch m.Dim {
	case 1:
		z := (x[0] - m.Xi[0]) / m.l11
		q = z * z
		w = m.Alpha[0] * z
	case 2:
		dx0 := x[0] - m.Xi[0]
		dx1 := x[1] - m.Xi[1]
		z0 := dx0 / m.l11
		z1 := (dx1 - m.l21*z0) / m.l22
		q = z0*z0 + z1*z1
		w = m.Alpha[0]*dx0/m.omegaBar[0] + m.Alpha[1]*dx1/m.omegaBar[1]
	}

	lg1, _ := math.Lgamma((nu + d) / 2)
	lg2, _ := math.Lgamma(nu / 2)
	logT := lg1 - lg2 - (d/2)*math.Log(nu*math.Pi) - 0.5*m.logDetOmega -
		((nu+d)/2)*math.Log1p(q/nu)

	// Skewing factor: the univariate t CDF at the rescaled shape projection.
	u := w * math.Sqrt((nu+d)/(q+nu))
	skew := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: nu + d}.CDF(u)

	return math.Ln2 + logT + math.Log(skew)
}

// Density evaluates the density at x. The result may be non-finite under
// numeric overflow; callers decide how to treat that.
func (m *Model) Density(x []float64) float64 {
	return math.Exp(m.LogDensity(x))
}
