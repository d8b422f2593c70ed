package derive

import "mmr-history/internal/domain"

// Series holds index-aligned label, score and rank sequences.
type Series struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
	Ranks  []float64 `json:"ranks"`
}

func (s Series) Len() int {
	return len(s.Labels)
}

// DeriveSeries keeps input order: element i of each output belongs to records[i].
// Empty input yields empty, non-nil sequences.
func DeriveSeries(records []domain.MatchRecord, format DateFormat) Series {
	s := Series{
		Labels: make([]string, len(records)),
		Scores: make([]float64, len(records)),
		Ranks:  make([]float64, len(records)),
	}
	for i, rec := range records {
		s.Labels[i] = format.Format(rec.StartTime)
		s.Scores[i] = rec.PlayerScore
		s.Ranks[i] = rec.Rank
	}
	return s
}
