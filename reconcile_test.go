package markercall

import "testing"

func TestReconcilePosition(t *testing.T) {
	// Combined group 1 overlaps position group 1 three times and group 2
	// once; combined group 2 maps cleanly to position group 2.
	consensus := []int{1, 1, 1, 1, 2, 2, 0, -1}
	perLineGroup := []int{1, 1, 1, 2, 2, 2, 1, 2}

	calls := reconcilePosition(consensus, 2, perLineGroup, 2)

	for line, wantGroup := range []int64{1, 1, 1, 1, 2, 2, 0, 0} {
		if wantGroup == 0 {
			if calls[line].Valid {
				t.Fatalf("line %d has call %v, want null (consensus %d)", line, calls[line].Int64, consensus[line])
			}
			continue
		}
		if !calls[line].Valid || calls[line].Int64 != wantGroup {
			t.Fatalf("line %d call = %+v, want %d", line, calls[line], wantGroup)
		}
	}
}

func TestReconcilePositionTieTakesLowestGroup(t *testing.T) {
	// Combined group 1 splits evenly between position groups 1 and 2.
	consensus := []int{1, 1, 1, 1}
	perLineGroup := []int{2, 2, 1, 1}

	calls := reconcilePosition(consensus, 1, perLineGroup, 2)

	for line := range consensus {
		if !calls[line].Valid || calls[line].Int64 != 1 {
			t.Fatalf("line %d call = %+v; ties must resolve to the lowest position group", line, calls[line])
		}
	}
}

func TestReconcilePositionIgnoresUnassignedInVote(t *testing.T) {
	// Unassigned and ambiguous lines must not contribute to the contingency
	// counts: here they would otherwise flip the vote.
	consensus := []int{1, 1, 0, 0, 0, -1}
	perLineGroup := []int{1, 1, 2, 2, 2, 2}

	calls := reconcilePosition(consensus, 1, perLineGroup, 2)

	if !calls[0].Valid || calls[0].Int64 != 1 {
		t.Fatalf("line 0 call = %+v, want 1", calls[0])
	}
}
