package markercall

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/magicqtl/markercall/skewt"
)

// groupFit is the classification evidence for one combined group: its fitted
// distribution and the per-line contour membership.
type groupFit struct {
	model  *skewt.Model
	inside []bool
}

// classifyGroups fits a skew-t distribution per combined group, derives each
// group's contour-density threshold, and tests every line against every
// group's contour. Groups are processed concurrently; any fit failure fails
// the whole call. The returned consensus holds 1..g for lines inside
// exactly one contour, 0 for lines inside none, and -1 for lines inside more
// than one.
func classifyGroups(ctx context.Context, combined []int, g int, meas *Measurements, contourMass float64, concurrency int) ([]int, []*skewt.Model, error) {
	fits := make([]*groupFit, g)
	errs := make([]error, g)

	var wg sync.WaitGroup
	limit := make(chan struct{}, concurrency)

	for group := 1; group <= g; group++ {
		wg.Add(1)
		limit <- struct{}{}

		go func(group int) {
			defer wg.Done()
			defer func() { <-limit }()

			fit, err := classifyOneGroup(ctx, combined, group, meas, contourMass)
			if err != nil {
				errs[group-1] = fmt.Errorf("combined group %d: %w", group, err)
				return
			}
			fits[group-1] = fit
		}(group)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	consensus := make([]int, len(combined))
	for line := range combined {
		insideCount, insideGroup := 0, 0
		for gi, fit := range fits {
			if fit.inside[line] {
				insideCount++
				insideGroup = gi + 1
			}
		}
		switch {
		case insideCount == 1:
			consensus[line] = insideGroup
		case insideCount > 1:
			consensus[line] = -1
		default:
			consensus[line] = 0
		}
	}

	models := make([]*skewt.Model, g)
	for gi, fit := range fits {
		models[gi] = fit.model
	}

	return consensus, models, nil
}

// classifyOneGroup fits the group's subset, derives the contour threshold,
// and evaluates every line in the population against it. Non-finite density
// evaluations exclude the line from this group only; they are never an error.
func classifyOneGroup(ctx context.Context, combined []int, group int, meas *Measurements, contourMass float64) (*groupFit, error) {
	rows := make([]int, 0)
	for line, lab := range combined {
		if lab == group {
			rows = append(rows, line)
		}
	}

	model, err := skewt.Fit(ctx, meas.Subset(rows))
	if err != nil {
		return nil, err
	}

	threshold, err := model.ContourThreshold(contourMass)
	if err != nil {
		return nil, err
	}

	inside := make([]bool, meas.NumLines())
	for line := range inside {
		density := model.Density(meas.Row(line))
		if math.IsNaN(density) || math.IsInf(density, 0) {
			continue
		}
		inside[line] = density > threshold
	}

	return &groupFit{model: model, inside: inside}, nil
}
