package pairwise

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// matrixFromPairs builds a significance matrix with the given p-value for the
// listed founder pairs (1-based) and background elsewhere.
func matrixFromPairs(background float64, p float64, pairs [][2]int) *mat.SymDense {
	m := mat.NewSymDense(NumFounders, nil)
	for i := 0; i < NumFounders; i++ {
		m.SetSym(i, i, 1)
		for j := i + 1; j < NumFounders; j++ {
			m.SetSym(i, j, background)
		}
	}
	for _, pair := range pairs {
		m.SetSym(pair[0]-1, pair[1]-1, p)
	}
	return m
}

func TestPartitionTwoGroups(t *testing.T) {
	m := matrixFromPairs(1e-50, 0.5, [][2]int{
		{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4},
		{5, 6}, {5, 7}, {5, 8}, {6, 7}, {6, 8}, {7, 8},
	})

	groups, err := Partition(m, 1e-10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}
}

func TestPartitionSingletons(t *testing.T) {
	// No pair connected: eight singleton groups.
	m := matrixFromPairs(1e-50, 1e-50, nil)

	groups, err := Partition(m, 1e-10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != NumFounders {
		t.Fatalf("got %d groups, want %d singletons", len(groups), NumFounders)
	}
	for f, group := range groups {
		if !reflect.DeepEqual(group, []int{f + 1}) {
			t.Fatalf("group %d = %v, want [%d]", f, group, f+1)
		}
	}
}

func TestPartitionMonomorphicIsSingleGroup(t *testing.T) {
	// Every off-diagonal p-value above the threshold: one clique of all
	// eight founders. Partition reports it as a valid single group; the
	// caller decides it is fatal.
	m := matrixFromPairs(0.5, 0.5, nil)

	groups, err := Partition(m, 1e-10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || len(groups[0]) != NumFounders {
		t.Fatalf("groups = %v, want one group of all founders", groups)
	}
}

func TestPartitionChainIsInvalid(t *testing.T) {
	// 1-2 and 2-3 connected but not 1-3: maximal cliques {1,2} and {2,3}
	// both claim founder 2.
	m := matrixFromPairs(1e-50, 0.5, [][2]int{{1, 2}, {2, 3}})

	if _, err := Partition(m, 1e-10); !errors.Is(err, ErrInvalidPartition) {
		t.Fatalf("error = %v, want ErrInvalidPartition", err)
	}
}

func TestPartitionNaNNeverConnects(t *testing.T) {
	m := matrixFromPairs(1e-50, 0.5, [][2]int{{1, 2}})
	m.SetSym(2, 3, math.NaN())

	groups, err := Partition(m, 1e-10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]int{{1, 2}, {3}, {4}, {5}, {6}, {7}, {8}}
	if !reflect.DeepEqual(groups, want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}
}

func TestGroupIndex(t *testing.T) {
	idx := GroupIndex([][]int{{1, 2, 3, 4}, {5, 6, 7, 8}})
	for f := 1; f <= NumFounders; f++ {
		want := 1
		if f > 4 {
			want = 2
		}
		if idx[f] != want {
			t.Fatalf("founder %d in group %d, want %d", f, idx[f], want)
		}
	}
}
