package markercall

import "gopkg.in/guregu/null.v3"

// reconcilePosition maps the consensus combined groups back onto one
// position's original grouping by contingency majority vote. perLineGroup is
// the position's 1-based group index per line, numGroups its group count;
// consensus is the per-line combined assignment (0 unassigned, -1 ambiguous).
// For each combined group the call is the position group with the highest
// co-occurrence, ties broken by the lowest position-group index. Lines
// without a consensus assignment get a null call.
func reconcilePosition(consensus []int, numCombined int, perLineGroup []int, numGroups int) []null.Int {
	// counts[combined-1][positionGroup-1]
	counts := make([][]int, numCombined)
	for i := range counts {
		counts[i] = make([]int, numGroups)
	}
	for line, comb := range consensus {
		if comb < 1 {
			continue
		}
		counts[comb-1][perLineGroup[line]-1]++
	}

	vote := make([]int, numCombined)
	for comb := range counts {
		best, bestCount := 1, -1
		for pg := 1; pg <= numGroups; pg++ {
			if c := counts[comb][pg-1]; c > bestCount {
				best, bestCount = pg, c
			}
		}
		vote[comb] = best
	}

	calls := make([]null.Int, len(consensus))
	for line, comb := range consensus {
		if comb < 1 {
			continue
		}
		calls[line] = null.IntFrom(int64(vote[comb-1]))
	}

	return calls
}
