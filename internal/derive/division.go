package derive

import (
	"fmt"

	"mmr-history/internal/domain"
)

// DivisionCounts is indexed by division-1.
type DivisionCounts [domain.DivisionCount]int

var DivisionNames = func() [domain.DivisionCount]string {
	var names [domain.DivisionCount]string
	for i := range names {
		names[i] = fmt.Sprintf("Division %d", i+domain.MinDivision)
	}
	return names
}()

// AggregateDivisions counts records per division. Records outside 1-5 are
// skipped without error.
func AggregateDivisions(records []domain.MatchRecord) DivisionCounts {
	var counts DivisionCounts
	for _, rec := range records {
		if !rec.HasValidDivision() {
			continue
		}
		counts[rec.Division-domain.MinDivision]++
	}
	return counts
}

func (c DivisionCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

func (c DivisionCounts) Floats() []float64 {
	out := make([]float64, len(c))
	for i, n := range c {
		out[i] = float64(n)
	}
	return out
}
