package markercall

import "fmt"

// Params are the tuning inputs to a call. The zero value is not usable;
// DefaultParams supplies conventional settings.
type Params struct {
	// ThresholdChromosomes is the association-score cutoff above which a
	// chromosome is considered associated with the marker.
	ThresholdChromosomes float64 `toml:"threshold_chromosomes"`

	// ThresholdAlleleClusters are the candidate pairwise-significance
	// thresholds, tried in the order given, each next entry admitting more
	// founder adjacencies than the last (conventionally 1e-10, 1e-20, ...).
	ThresholdAlleleClusters []float64 `toml:"threshold_allele_clusters"`

	// MaxChromosomes caps how many chromosomes may exceed
	// ThresholdChromosomes before the marker is rejected as too complex.
	MaxChromosomes int `toml:"max_chromosomes"`

	// TDistributionPValue is the probability mass enclosed by each combined
	// group's density contour, in (0,1).
	TDistributionPValue float64 `toml:"t_distribution_p_value"`
}

// DefaultParams returns conventional settings for an 8-founder population.
func DefaultParams() Params {
	return Params{
		ThresholdChromosomes:    10,
		ThresholdAlleleClusters: []float64{1e-10, 1e-20, 1e-30, 1e-40},
		MaxChromosomes:          2,
		TDistributionPValue:     0.95,
	}
}

// Validate reports the first unusable parameter.
func (p Params) Validate() error {
	if len(p.ThresholdAlleleClusters) == 0 {
		return fmt.Errorf("markercall: at least one allele-cluster threshold is required")
	}
	for i, t := range p.ThresholdAlleleClusters {
		if t <= 0 || t >= 1 {
			return fmt.Errorf("markercall: allele-cluster threshold %d (%v) outside (0,1)", i, t)
		}
		if i > 0 && t >= p.ThresholdAlleleClusters[i-1] {
			return fmt.Errorf("markercall: allele-cluster thresholds must grow more permissive; entry %d (%v) does not", i, t)
		}
	}
	if p.MaxChromosomes < 1 {
		return fmt.Errorf("markercall: max chromosomes %d must be at least 1", p.MaxChromosomes)
	}
	if p.TDistributionPValue <= 0 || p.TDistributionPValue >= 1 {
		return fmt.Errorf("markercall: contour mass %v outside (0,1)", p.TDistributionPValue)
	}
	return nil
}
