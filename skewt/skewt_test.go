package skewt

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func symmetricModel(t *testing.T, xi, omega, nu float64) *Model {
	t.Helper()
	m, err := NewModel([]float64{xi}, mat.NewSymDense(1, []float64{omega}), []float64{0}, nu)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

// With zero shape the skew-t reduces to a scaled Student's t.
func TestSymmetricDensityMatchesStudentsT(t *testing.T) {
	m := symmetricModel(t, 0, 1, 5)
	ref := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 5}

	for _, x := range []float64{-3, -1.5, -0.1, 0, 0.4, 2, 6} {
		got := m.Density([]float64{x})
		want := ref.Prob(x)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("density(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestScaledDensity(t *testing.T) {
	m := symmetricModel(t, 3, 4, 7) // scale matrix 4 means omega = 2
	ref := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 7}

	for _, x := range []float64{0, 2, 3, 5} {
		got := m.Density([]float64{x})
		want := ref.Prob((x-3)/2) / 2
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("density(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestBivariateDensityIntegratesToOne(t *testing.T) {
	omega := mat.NewSymDense(2, []float64{1, 0.3, 0.3, 2})
	m, err := NewModel([]float64{1, -2}, omega, []float64{2, -1}, 6)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	const n = 400
	span := 25.0
	step0 := 2 * span * m.omegaBar[0] / n
	step1 := 2 * span * m.omegaBar[1] / n

	total := 0.0
	x := make([]float64, 2)
	for i := 0; i < n; i++ {
		x[0] = m.Xi[0] - span*m.omegaBar[0] + (float64(i)+0.5)*step0
		for j := 0; j < n; j++ {
			x[1] = m.Xi[1] - span*m.omegaBar[1] + (float64(j)+0.5)*step1
			total += m.Density(x) * step0 * step1
		}
	}

	if math.Abs(total-1) > 0.02 {
		t.Fatalf("density integrates to %v, want ~1", total)
	}
}

// quantileSample builds a deterministic near-normal sample: normal quantiles
// of a uniform grid over (0.1, 0.9), scaled and shifted.
func quantileSample(n int, mu, sigma float64) *mat.Dense {
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		z := norm.Quantile(0.1 + 0.8*(float64(i)+0.5)/float64(n))
		out.Set(i, 0, mu+sigma*z)
	}
	return out
}

func TestFitRecoversLocation(t *testing.T) {
	data := quantileSample(200, 3, 0.5)

	m, err := Fit(context.Background(), data)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if math.Abs(m.Xi[0]-3) > 0.2 {
		t.Fatalf("fitted location %v, want ~3", m.Xi[0])
	}
	if m.Omega.At(0, 0) <= 0 || m.Omega.At(0, 0) > 1 {
		t.Fatalf("fitted scale %v implausible for sigma 0.5", m.Omega.At(0, 0))
	}
}

func TestFitBelowFloorFails(t *testing.T) {
	data := quantileSample(MinFitSize-1, 0, 1)

	if _, err := Fit(context.Background(), data); !errors.Is(err, ErrFitFailed) {
		t.Fatalf("error = %v, want ErrFitFailed", err)
	}
}

func TestFitCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Fit(ctx, quantileSample(50, 0, 1)); err == nil {
		t.Fatal("fit succeeded under a canceled context")
	}
}

func TestContourThresholdMatchesStudentsT(t *testing.T) {
	// For a symmetric unimodal density the mass-p super-level set is the
	// central interval, so the contour density is the pdf at the matching
	// tail quantile.
	m := symmetricModel(t, 0, 1, 5)
	ref := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 5}

	for _, p := range []float64{0.5, 0.9, 0.95} {
		got, err := m.ContourThreshold(p)
		if err != nil {
			t.Fatalf("ContourThreshold(%v): %v", p, err)
		}
		want := ref.Prob(ref.Quantile(0.5 + p/2))
		if math.Abs(got-want)/want > 0.05 {
			t.Fatalf("threshold at mass %v = %v, want ~%v", p, got, want)
		}
	}
}

func TestContourThresholdMonotonic(t *testing.T) {
	omega := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	m, err := NewModel([]float64{0, 0}, omega, []float64{0, 0}, 10)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	prev := math.Inf(1)
	for _, p := range []float64{0.5, 0.9, 0.99} {
		c, err := m.ContourThreshold(p)
		if err != nil {
			t.Fatalf("ContourThreshold(%v): %v", p, err)
		}
		if c >= prev {
			t.Fatalf("threshold %v at mass %v not below %v", c, p, prev)
		}
		prev = c
	}
}

func TestContourThresholdRejectsBadMass(t *testing.T) {
	m := symmetricModel(t, 0, 1, 5)
	for _, p := range []float64{0, 1, -0.2, 1.5} {
		if _, err := m.ContourThreshold(p); err == nil {
			t.Fatalf("mass %v accepted", p)
		}
	}
}
