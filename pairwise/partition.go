package pairwise

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidPartition is returned when the maximal cliques of the adjacency
// graph do not form an exact partition of the founders at the tested
// threshold.
var ErrInvalidPartition = errors.New("pairwise: maximal cliques do not partition the founders")

// Partition groups the founders at the given significance threshold. Founders
// i and j are adjacent when their p-value exceeds threshold (no evidence they
// differ). The maximal cliques of that graph must place every founder in
// exactly one clique; otherwise ErrInvalidPartition is returned. Groups are
// returned as sorted founder slices (1-based labels), ordered by their
// smallest member, so group indices are deterministic. A single returned
// group means the position is monomorphic; that judgment is left to the
// caller.
func Partition(m *mat.SymDense, threshold float64) ([][]int, error) {
	g := simple.NewUndirectedGraph()
	for f := 0; f < NumFounders; f++ {
		g.AddNode(simple.Node(f))
	}
	for i := 0; i < NumFounders; i++ {
		for j := i + 1; j < NumFounders; j++ {
			// NaN compares false: untestable pairs are never adjacent.
			if m.At(i, j) > threshold {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}

	cliques := topo.BronKerbosch(g)

	seen := make(map[int]int, NumFounders)
	total := 0
	groups := make([][]int, 0, len(cliques))
	for _, clique := range cliques {
		founders := make([]int, 0, len(clique))
		for _, node := range clique {
			f := int(node.ID()) + 1
			seen[f]++
			total++
			founders = append(founders, f)
		}
		sort.Ints(founders)
		groups = append(groups, founders)
	}

	if total != NumFounders {
		return nil, ErrInvalidPartition
	}
	for f := 1; f <= NumFounders; f++ {
		if seen[f] != 1 {
			return nil, ErrInvalidPartition
		}
	}

	sort.Slice(groups, func(a, b int) bool { return groups[a][0] < groups[b][0] })

	return groups, nil
}

// GroupIndex maps each founder label (1..NumFounders) to the 1-based index of
// its group within groups.
func GroupIndex(groups [][]int) map[int]int {
	out := make(map[int]int, NumFounders)
	for gi, founders := range groups {
		for _, f := range founders {
			out[f] = gi + 1
		}
	}
	return out
}
