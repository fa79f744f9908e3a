package markercall

import (
	"math"

	"github.com/tokenme/probab/dst"

	"github.com/magicqtl/markercall/pairwise"
)

// Scorer produces a per-position association score for the marker; larger
// means more strongly associated. labels holds the imputed founder per line
// at the position.
type Scorer interface {
	Score(position string, labels []int, meas *Measurements) float64
}

// FactorScorer is the built-in association scorer: a one-way founder-factor
// likelihood-ratio scan. Per response dimension it compares the founder-mean
// model against the grand-mean model; n*log(TSS/RSS) is referred to a
// chi-square with NumFounders-1 degrees of freedom and the score is -log10 of
// the resulting p-value, maximized over response dimensions.
type FactorScorer struct{}

func (FactorScorer) Score(position string, labels []int, meas *Measurements) float64 {
	n := meas.NumLines()
	score := 0.0

	for d := 0; d < meas.Dims(); d++ {
		grand := 0.0
		sums := make(map[int]float64)
		counts := make(map[int]int)
		for i := 0; i < n; i++ {
			v := meas.Row(i)[d]
			grand += v
			sums[labels[i]] += v
			counts[labels[i]]++
		}
		grand /= float64(n)

		tss, rss := 0.0, 0.0
		for i := 0; i < n; i++ {
			v := meas.Row(i)[d]
			lab := labels[i]
			groupMean := sums[lab] / float64(counts[lab])
			tss += (v - grand) * (v - grand)
			rss += (v - groupMean) * (v - groupMean)
		}
		if rss <= 0 || tss <= 0 {
			continue
		}

		lr := float64(n) * math.Log(tss/rss)
		p := 1 - dst.ChiSquareCDF(pairwise.NumFounders-1)(lr)

		s := -math.Log10(p)
		if math.IsInf(s, 1) || s > maxScore {
			s = maxScore
		}
		if s > score {
			score = s
		}
	}

	return score
}

// maxScore caps -log10(p) where the chi-square CDF saturates to 1 in float64.
const maxScore = 320
