package markercall

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/magicqtl/markercall/genemap"
)

// chromosomePick is one chromosome's best evidence of association.
type chromosomePick struct {
	chromosome string
	best       string // position with the maximum score
	max        float64
}

// selectPositions reduces the per-position association scores to one
// representative position per associated chromosome. If more chromosomes
// exceed the association threshold than maxChromosomes allows, the marker is
// rejected before any partition or fit work happens.
func selectPositions(gm genemap.Map, scores map[string]float64, thresholdChromosomes float64, maxChromosomes int) ([]chromosomePick, error) {
	picks := make([]chromosomePick, 0, len(gm.Chromosomes()))

	for _, chrom := range gm.Chromosomes() {
		positions := gm.PositionsForChromosome(chrom)
		if len(positions) == 0 {
			continue
		}

		perPos := make([]float64, len(positions))
		for i, pos := range positions {
			perPos[i] = scores[pos]
		}

		max, err := stats.Max(perPos)
		if err != nil {
			continue
		}

		best := positions[0]
		for i, pos := range positions {
			if perPos[i] == max {
				best = pos
				break
			}
		}

		picks = append(picks, chromosomePick{chromosome: chrom, best: best, max: max})
	}

	sort.SliceStable(picks, func(a, b int) bool { return picks[a].max > picks[b].max })

	survivors := make([]chromosomePick, 0, len(picks))
	for _, pick := range picks {
		if pick.max > thresholdChromosomes {
			survivors = append(survivors, pick)
		}
	}

	if len(survivors) > maxChromosomes {
		return nil, ErrTooComplexAssociation
	}
	if len(survivors) == 0 {
		return nil, ErrNoAssociation
	}

	return survivors, nil
}
