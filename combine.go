package markercall

import "strconv"

// combineGroups folds per-position group indices into one combined label per
// line. positionGroups holds, per selected position, the 1-based group index
// per line. Distinct tuples are relabeled to dense IDs 1..G in
// first-encounter order over lines, which is deterministic for fixed input
// order.
func combineGroups(positionGroups [][]int, numLines int) (combined []int, g int) {
	combined = make([]int, numLines)
	ids := make(map[string]int)

	for line := 0; line < numLines; line++ {
		key := ""
		for _, perLine := range positionGroups {
			key += strconv.Itoa(perLine[line]) + "|"
		}

		id, seen := ids[key]
		if !seen {
			g++
			id = g
			ids[key] = id
		}
		combined[line] = id
	}

	return combined, g
}
