package markercall

import (
	"gonum.org/v1/gonum/mat"
	"gopkg.in/guregu/null.v3"

	"github.com/magicqtl/markercall/skewt"
)

// LineStatus is the consensus classification outcome for one line.
type LineStatus string

const (
	// StatusAssigned: the line fell inside exactly one combined group's
	// density contour.
	StatusAssigned LineStatus = "assigned"

	// StatusAmbiguous: the line fell inside more than one contour.
	StatusAmbiguous LineStatus = "ambiguous"

	// StatusUnassigned: the line fell inside no contour.
	StatusUnassigned LineStatus = "unassigned"
)

// PositionCall is the reconciled outcome at one selected position.
type PositionCall struct {
	Position   string
	Chromosome string

	// Founders maps each 1-based position group index to the founder labels
	// it contains.
	Founders [][]int

	// Calls holds the final per-line position-group call; null for lines
	// whose consensus assignment is ambiguous or unassigned.
	Calls []null.Int
}

// Result is the full outcome of a successful call. Uncallable markers yield
// no Result at all.
type Result struct {
	// Lines are the line identifiers, fixing the index order of every
	// per-line slice below.
	Lines []string

	// Groups is the number of combined groups G.
	Groups int

	// Consensus is the per-line combined-group assignment (1..Groups), null
	// for ambiguous or unassigned lines; Status spells out which.
	Consensus []null.Int
	Status    []LineStatus

	// Preliminary is the combined grouping before contour classification.
	Preliminary []int

	// Positions are the reconciled per-position calls, in selection order.
	Positions []PositionCall

	// Significance holds the founder pairwise p-value matrix per selected
	// position.
	Significance map[string]*mat.SymDense

	// Threshold is the accepted allele-cluster significance threshold.
	Threshold float64

	// Fits holds the fitted skew-t model per combined group, indexed by
	// group-1.
	Fits []*skewt.Model
}
