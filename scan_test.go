package markercall

import "testing"

func TestFactorScorerSeparatesInformativePositions(t *testing.T) {
	meas := e2eMeasurements(t)

	informative := make([]int, e2eLines)
	uninformative := make([]int, e2eLines)
	for line := 0; line < e2eLines; line++ {
		informative[line] = founderA(line)
		uninformative[line] = founderNoise(line)
	}

	var scorer FactorScorer
	high := scorer.Score("1_50", informative, meas)
	low := scorer.Score("1_10", uninformative, meas)

	if high < 100 {
		t.Fatalf("informative position scored %v, want a large association score", high)
	}
	if low > 5 {
		t.Fatalf("uninformative position scored %v, want a near-zero association score", low)
	}
	if high <= low {
		t.Fatalf("informative score %v not above uninformative score %v", high, low)
	}
}

func TestFactorScorerCapsAtMaxScore(t *testing.T) {
	meas := e2eMeasurements(t)
	labels := make([]int, e2eLines)
	for line := range labels {
		labels[line] = founderA(line)
	}

	var scorer FactorScorer
	if got := scorer.Score("1_50", labels, meas); got > maxScore {
		t.Fatalf("score %v exceeds the cap %v", got, float64(maxScore))
	}
}
