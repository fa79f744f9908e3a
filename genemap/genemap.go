// Package genemap exposes a previously constructed genetic map with imputed
// founder origins as a read-only lookup: chromosome -> ordered positions, and
// (position, line) -> founder label.
package genemap

import (
	"fmt"
)

// Map is the read-only view of the genetic map and its founder imputation.
// Lines are addressed by index; the index ordering is fixed at construction
// and must match the ordering of the measurement table handed to the caller.
type Map interface {
	// Chromosomes returns the chromosome identifiers in map order.
	Chromosomes() []string

	// PositionsForChromosome returns the ordered position identifiers on the
	// given chromosome. Unknown chromosomes yield nil.
	PositionsForChromosome(chromosome string) []string

	// FounderLabel returns the imputed founder (1..NumFounders) for the given
	// line at the given position.
	FounderLabel(position string, line int) int

	// NumFounders is the number of founding genotypes in the population.
	NumFounders() int

	// NumLines is the number of lines in the population.
	NumLines() int
}

// InMemory is a Map backed by in-memory tables.
type InMemory struct {
	chromosomes []string
	positions   map[string][]string
	labels      map[string][]int
	founders    int
	lines       int
}

// New builds an in-memory Map. positions maps each chromosome to its ordered
// position identifiers; labels maps each position to a per-line founder label
// slice. All label slices must have the same length, and every label must be
// in 1..founders.
func New(chromosomes []string, positions map[string][]string, labels map[string][]int, founders int) (*InMemory, error) {
	if founders < 2 {
		return nil, fmt.Errorf("genemap: need at least 2 founders, got %d", founders)
	}

	lines := -1
	for _, chrom := range chromosomes {
		for _, pos := range positions[chrom] {
			lab, exists := labels[pos]
			if !exists {
				return nil, fmt.Errorf("genemap: position %s has no founder labels", pos)
			}
			if lines < 0 {
				lines = len(lab)
			}
			if len(lab) != lines {
				return nil, fmt.Errorf("genemap: position %s has %d labels, want %d", pos, len(lab), lines)
			}
			for i, v := range lab {
				if v < 1 || v > founders {
					return nil, fmt.Errorf("genemap: position %s line %d has founder label %d outside 1..%d", pos, i, v, founders)
				}
			}
		}
	}
	if lines < 1 {
		return nil, fmt.Errorf("genemap: map contains no positions")
	}

	return &InMemory{
		chromosomes: chromosomes,
		positions:   positions,
		labels:      labels,
		founders:    founders,
		lines:       lines,
	}, nil
}

func (m *InMemory) Chromosomes() []string { return m.chromosomes }

func (m *InMemory) PositionsForChromosome(chromosome string) []string {
	return m.positions[chromosome]
}

func (m *InMemory) FounderLabel(position string, line int) int {
	return m.labels[position][line]
}

func (m *InMemory) NumFounders() int { return m.founders }

func (m *InMemory) NumLines() int { return m.lines }

// FounderLabels collects the per-line founder labels at one position from any
// Map into a slice indexed by line.
func FounderLabels(m Map, position string) []int {
	out := make([]int, m.NumLines())
	for i := range out {
		out[i] = m.FounderLabel(position, i)
	}
	return out
}
