package markercall

import (
	"errors"

	"github.com/magicqtl/markercall/pairwise"
	"github.com/magicqtl/markercall/skewt"
)

// Failure kinds. Any of these returned from Call means the marker is
// uncallable; no partial result accompanies them.
var (
	// ErrTooComplexAssociation: more chromosomes exceed the association
	// threshold than MaxChromosomes allows.
	ErrTooComplexAssociation = errors.New("markercall: association spans more chromosomes than allowed")

	// ErrNoAssociation: no chromosome exceeds the association threshold, so
	// there is no position to call against.
	ErrNoAssociation = errors.New("markercall: no chromosome exceeds the association threshold")

	// ErrInvalidPartition: no candidate threshold produced an exact founder
	// partition at every selected position.
	ErrInvalidPartition = pairwise.ErrInvalidPartition

	// ErrMonomorphic: a selected position yielded a single allele group.
	// Fatal immediately; later thresholds are not tried.
	ErrMonomorphic = errors.New("markercall: selected position is monomorphic")

	// ErrDistributionFit: skew-t fitting failed on both the constrained and
	// unconstrained attempt for some combined group.
	ErrDistributionFit = skewt.ErrFitFailed
)
