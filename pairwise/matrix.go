// Package pairwise builds founder-by-founder significance matrices at a
// genomic position and partitions the founders into allele groups via
// maximal-clique analysis of the induced graph.
package pairwise

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NumFounders is the number of founding genotypes in the population design.
const NumFounders = 8

// minPairLines is the smallest number of informative lines for which a
// contrast test is attempted. Below this the residual degrees of freedom
// vanish and the pair is recorded as NaN (never adjacent).
const minPairLines = 3

// Matrix computes the symmetric NumFounders x NumFounders matrix of contrast
// p-values at one position. labels holds the imputed founder (1..NumFounders)
// per line; meas holds one row per line with one or two response columns. For
// each unordered founder pair the measurement is regressed on an indicator
// isolating the two founders, over the lines carrying either founder, and the
// two-sided t-test p-value of the indicator coefficient is recorded; with two
// response columns the smaller of the two p-values is kept. The diagonal is
// set to 1. A large p-value is evidence that the two founders carry the same
// allele.
func Matrix(labels []int, meas *mat.Dense) *mat.SymDense {
	out := mat.NewSymDense(NumFounders, nil)
	_, dims := meas.Dims()

	for i := 1; i <= NumFounders; i++ {
		out.SetSym(i-1, i-1, 1)
		for j := i + 1; j <= NumFounders; j++ {
			// Lines carrying founder i or founder j at this position.
			rows := make([]int, 0, len(labels))
			ind := make([]float64, 0, len(labels))
			for line, lab := range labels {
				if lab == i || lab == j {
					rows = append(rows, line)
					if lab == j {
						ind = append(ind, 1)
					} else {
						ind = append(ind, 0)
					}
				}
			}

			p := math.NaN()
			for d := 0; d < dims; d++ {
				y := make([]float64, len(rows))
				for k, line := range rows {
					y[k] = meas.At(line, d)
				}
				if pd := contrastP(y, ind); !math.IsNaN(pd) && (math.IsNaN(p) || pd < p) {
					p = pd
				}
			}

			out.SetSym(i-1, j-1, p)
		}
	}

	return out
}

// contrastP fits y ~ 1 + ind by least squares and returns the two-sided
// p-value for the indicator coefficient. NaN when the pair has too few
// informative lines or only one founder is represented.
func contrastP(y, ind []float64) float64 {
	n := len(y)
	ones := 0
	for _, v := range ind {
		if v == 1 {
			ones++
		}
	}
	if n < minPairLines || ones == 0 || ones == n {
		return math.NaN()
	}

	df := n - 2

	X := mat.NewDense(n, 2, nil)
	for k := 0; k < n; k++ {
		X.Set(k, 0, 1)
		X.Set(k, 1, ind[k])
	}

	var qr mat.QR
	qr.Factorize(X)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewDense(n, 1, y)); err != nil {
		return math.NaN()
	}

	b0, b1 := beta.At(0, 0), beta.At(1, 0)

	rss := 0.0
	for k := 0; k < n; k++ {
		r := y[k] - b0 - b1*ind[k]
		rss += r * r
	}
	s2 := rss / float64(df)

	// (X'X)^-1 [1][1] for an intercept-plus-indicator design reduces to
	// 1/n0 + 1/n1.
	n1 := float64(ones)
	n0 := float64(n - ones)
	seSq := s2 * (1/n0 + 1/n1)
	if seSq <= 0 {
		// A perfect fit: the group means differ (b1 != 0) with zero residual
		// noise, which is as significant as it gets; identical means carry no
		// evidence of difference at all.
		if b1 != 0 {
			return 0
		}
		return 1
	}

	t := math.Abs(b1) / math.Sqrt(seSq)
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}

	return 2 * tdist.CDF(-t)
}
