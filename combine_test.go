package markercall

import (
	"reflect"
	"testing"
)

func TestCombineGroups(t *testing.T) {
	for _, v := range []struct {
		name          string
		positions     [][]int
		wantCombined  []int
		wantGroupsNum int
	}{
		{
			name:          "two positions cross product",
			positions:     [][]int{{1, 1, 2, 2}, {1, 2, 1, 2}},
			wantCombined:  []int{1, 2, 3, 4},
			wantGroupsNum: 4,
		},
		{
			name:          "repeated tuples share an id",
			positions:     [][]int{{1, 1, 2, 1}, {1, 1, 2, 1}},
			wantCombined:  []int{1, 1, 2, 1},
			wantGroupsNum: 2,
		},
		{
			name:          "single position passes through",
			positions:     [][]int{{2, 1, 2}},
			wantCombined:  []int{1, 2, 1},
			wantGroupsNum: 2,
		},
		{
			name:          "only observed combinations get ids",
			positions:     [][]int{{1, 1, 2, 2}, {1, 1, 2, 2}},
			wantCombined:  []int{1, 1, 2, 2},
			wantGroupsNum: 2,
		},
	} {
		combined, g := combineGroups(v.positions, len(v.positions[0]))
		if !reflect.DeepEqual(combined, v.wantCombined) {
			t.Fatalf("%s: combined = %v, want %v", v.name, combined, v.wantCombined)
		}
		if g != v.wantGroupsNum {
			t.Fatalf("%s: G = %d, want %d", v.name, g, v.wantGroupsNum)
		}
	}
}
