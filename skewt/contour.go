package skewt

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Evaluation-grid geometry for contour extraction. The grid spans the
// location plus or minus spanScale marginal scale units; mass beyond the grid
// is absorbed by renormalizing before the level search, which keeps the
// heavy-tail truncation from biasing the enclosed-mass inversion.
const (
	spanScale  = 10.0
	gridSide   = 160  // bivariate: gridSide x gridSide cells
	gridPoints = 2048 // univariate
)

// ContourThreshold returns the mean density along the density contour whose
// enclosed probability mass is p (0 < p < 1). Lines whose density exceeds
// this value sit inside the contour.
func (m *Model) ContourThreshold(p float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("skewt: contour mass %v outside (0,1)", p)
	}
	if m.Dim == 1 {
		return m.contourThreshold1D(p)
	}
	return m.contourThreshold2D(p)
}

func (m *Model) contourThreshold1D(p float64) (float64, error) {
	dens := make([]float64, gridPoints)
	lo := m.Xi[0] - spanScale*m.omegaBar[0]
	step := 2 * spanScale * m.omegaBar[0] / float64(gridPoints-1)

	for i := range dens {
		f := m.Density([]float64{lo + float64(i)*step})
		if math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		dens[i] = f
	}

	level, err := levelForMass(dens, p)
	if err != nil {
		return 0, err
	}

	// Mean density over the grid points straddling the level set boundary.
	boundary := make([]float64, 0)
	for i, f := range dens {
		if f < level {
			continue
		}
		if (i > 0 && dens[i-1] < level) || (i < gridPoints-1 && dens[i+1] < level) {
			boundary = append(boundary, f)
		}
	}
	if len(boundary) == 0 {
		return level, nil
	}

	return floats.Sum(boundary) / float64(len(boundary)), nil
}

func (m *Model) contourThreshold2D(p float64) (float64, error) {
	dens := make([]float64, gridSide*gridSide)
	lo0 := m.Xi[0] - spanScale*m.omegaBar[0]
	lo1 := m.Xi[1] - spanScale*m.omegaBar[1]
	step0 := 2 * spanScale * m.omegaBar[0] / float64(gridSide-1)
	step1 := 2 * spanScale * m.omegaBar[1] / float64(gridSide-1)

	x := make([]float64, 2)
	for i := 0; i < gridSide; i++ {
		x[0] = lo0 + float64(i)*step0
		for j := 0; j < gridSide; j++ {
			x[1] = lo1 + float64(j)*step1
			f := m.Density(x)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				f = 0
			}
			dens[i*gridSide+j] = f
		}
	}

	level, err := levelForMass(dens, p)
	if err != nil {
		return 0, err
	}

	boundary := make([]float64, 0)
	for i := 0; i < gridSide; i++ {
		for j := 0; j < gridSide; j++ {
			f := dens[i*gridSide+j]
			if f < level {
				continue
			}
			if (i > 0 && dens[(i-1)*gridSide+j] < level) ||
				(i < gridSide-1 && dens[(i+1)*gridSide+j] < level) ||
				(j > 0 && dens[i*gridSide+j-1] < level) ||
				(j < gridSide-1 && dens[i*gridSide+j+1] < level) {
				boundary = append(boundary, f)
			}
		}
	}
	if len(boundary) == 0 {
		return level, nil
	}

	return floats.Sum(boundary) / float64(len(boundary)), nil
}

// levelForMass finds the density level whose super-level set on the grid
// captures fraction p of the total grid mass. Cell geometry is uniform, so
// the cell areas cancel out of the mass ratio.
func levelForMass(dens []float64, p float64) (float64, error) {
	total := floats.Sum(dens)
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, fmt.Errorf("skewt: density grid carries no usable mass")
	}

	sorted := append([]float64{}, dens...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	target := p * total
	cum := 0.0
	for _, f := range sorted {
		cum += f
		if cum >= target {
			return f, nil
		}
	}

	return sorted[len(sorted)-1], nil
}
