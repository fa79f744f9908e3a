// Package markercall assigns genotype calls to a genetic marker measured on a
// multi-parent population, using a pre-built genetic map with imputed founder
// origins. Calling runs in two stages: founders are partitioned into allele
// groups at the associated positions by pairwise contrast tests and
// maximal-clique analysis, then lines are classified by skew-t density
// contours over the combined groups and the consensus is reconciled back onto
// each position.
package markercall

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/guregu/null.v3"

	"github.com/magicqtl/markercall/genemap"
	"github.com/magicqtl/markercall/pairwise"
)

// Caller runs the two-stage calling algorithm. Map and Params are required;
// a nil Scorer falls back to FactorScorer.
type Caller struct {
	Map    genemap.Map
	Scorer Scorer
	Params Params

	// Concurrency bounds simultaneous matrix computations and distribution
	// fits; zero means GOMAXPROCS.
	Concurrency int
}

// Call computes the marker's genotype calls from the raw measurements. On any
// failure the marker is uncallable: the returned error wraps one of the
// package's failure kinds and no Result accompanies it.
func (c *Caller) Call(ctx context.Context, meas *Measurements) (*Result, error) {
	if err := c.Params.Validate(); err != nil {
		return nil, err
	}
	if meas.NumLines() != c.Map.NumLines() {
		return nil, fmt.Errorf("markercall: %d measured lines against %d mapped lines", meas.NumLines(), c.Map.NumLines())
	}

	scorer := c.Scorer
	if scorer == nil {
		scorer = FactorScorer{}
	}

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	// Stage 1: association scan and position selection.
	scores := make(map[string]float64)
	for _, chrom := range c.Map.Chromosomes() {
		for _, pos := range c.Map.PositionsForChromosome(chrom) {
			scores[pos] = scorer.Score(pos, genemap.FounderLabels(c.Map, pos), meas)
		}
	}

	picks, err := selectPositions(c.Map, scores, c.Params.ThresholdChromosomes, c.Params.MaxChromosomes)
	if err != nil {
		return nil, err
	}

	// Stage 2: pairwise significance matrices, one per selected position.
	// The matrices do not depend on the candidate thresholds, so they are
	// computed once, concurrently.
	labels := make([][]int, len(picks))
	matrices := make([]*mat.SymDense, len(picks))
	var wg sync.WaitGroup
	limit := make(chan struct{}, concurrency)
	for i, pick := range picks {
		wg.Add(1)
		limit <- struct{}{}
		go func(i int, position string) {
			defer wg.Done()
			defer func() { <-limit }()
			labels[i] = genemap.FounderLabels(c.Map, position)
			matrices[i] = pairwise.Matrix(labels[i], meas.Values())
		}(i, pick.best)
	}
	wg.Wait()

	// Stage 3: threshold escalation over the shared candidate list.
	groups, threshold, err := escalate(matrices, c.Params.ThresholdAlleleClusters)
	if err != nil {
		return nil, err
	}

	// Stage 4: combined groups across positions.
	positionGroups := make([][]int, len(picks))
	for i := range picks {
		idx := pairwise.GroupIndex(groups[i])
		perLine := make([]int, meas.NumLines())
		for line, founder := range labels[i] {
			perLine[line] = idx[founder]
		}
		positionGroups[i] = perLine
	}

	combined, g := combineGroups(positionGroups, meas.NumLines())

	// Stage 5: skew-t classification of every line against every combined
	// group's density contour.
	consensus, fits, err := classifyGroups(ctx, combined, g, meas, c.Params.TDistributionPValue, concurrency)
	if err != nil {
		return nil, err
	}

	// Stage 6: reconcile the consensus back onto each position.
	result := &Result{
		Lines:        meas.Lines(),
		Groups:       g,
		Preliminary:  combined,
		Significance: make(map[string]*mat.SymDense, len(picks)),
		Threshold:    threshold,
		Fits:         fits,
	}

	result.Consensus = make([]null.Int, meas.NumLines())
	result.Status = make([]LineStatus, meas.NumLines())
	for line, assignment := range consensus {
		switch {
		case assignment > 0:
			result.Consensus[line] = null.IntFrom(int64(assignment))
			result.Status[line] = StatusAssigned
		case assignment < 0:
			result.Status[line] = StatusAmbiguous
		default:
			result.Status[line] = StatusUnassigned
		}
	}

	for i, pick := range picks {
		result.Significance[pick.best] = matrices[i]
		result.Positions = append(result.Positions, PositionCall{
			Position:   pick.best,
			Chromosome: pick.chromosome,
			Founders:   groups[i],
			Calls:      reconcilePosition(consensus, g, positionGroups[i], len(groups[i])),
		})
	}

	return result, nil
}

// escalate tries the candidate thresholds in order against every position's
// matrix. An invalid clique cover at any position abandons the current
// threshold for all positions and moves to the next candidate; a monomorphic
// position aborts outright without trying further candidates. Exhausting the
// candidates is an invalid partition for the marker.
func escalate(matrices []*mat.SymDense, thresholds []float64) ([][][]int, float64, error) {
	for _, threshold := range thresholds {
		groups := make([][][]int, len(matrices))
		valid := true

		for i, matrix := range matrices {
			g, err := pairwise.Partition(matrix, threshold)
			if errors.Is(err, pairwise.ErrInvalidPartition) {
				valid = false
				break
			}
			if err != nil {
				return nil, 0, err
			}
			if len(g) == 1 {
				return nil, 0, fmt.Errorf("position %d at threshold %v: %w", i, threshold, ErrMonomorphic)
			}
			groups[i] = g
		}

		if valid {
			return groups, threshold, nil
		}
	}

	return nil, 0, fmt.Errorf("markercall: all %d candidate thresholds exhausted: %w", len(thresholds), ErrInvalidPartition)
}
