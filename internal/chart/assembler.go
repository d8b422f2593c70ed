package chart

import (
	"mmr-history/internal/derive"
	"mmr-history/internal/domain"
)

type Kind string

const (
	KindScore    Kind = "score"
	KindRank     Kind = "rank"
	KindDivision Kind = "division"
)

type Status string

const (
	StatusReady       Status = "ready"
	StatusLoading     Status = "loading"
	StatusUnavailable Status = "unavailable"
)

// Colors are bound to the role, not to the player.
const (
	PrimaryLineColor    = "rgb(75, 192, 192)"
	PrimaryBarColor     = "rgba(75, 192, 192, 0.5)"
	ComparisonLineColor = "rgb(255, 99, 132)"
	ComparisonBarColor  = "rgba(255, 99, 132, 0.5)"
)

type Series struct {
	Label string    `json:"label"`
	Color string    `json:"color"`
	Data  []float64 `json:"data"`
}

type Chart struct {
	Kind   Kind     `json:"kind"`
	Title  string   `json:"title"`
	Status Status   `json:"status"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
	Errors []string `json:"errors,omitempty"`
}

type Charts struct {
	Score    Chart `json:"score"`
	Rank     Chart `json:"rank"`
	Division Chart `json:"division"`
}

func (c Charts) All() []Chart {
	return []Chart{c.Score, c.Rank, c.Division}
}

// Part is one role's contribution. Series and Divisions are only read when
// Status is StatusReady; Err explains StatusUnavailable.
type Part struct {
	Player    domain.Player
	Status    Status
	Series    derive.Series
	Divisions derive.DivisionCounts
	Err       error
}

type Input struct {
	Primary    Part
	Comparison *Part // nil when comparison mode is off
}

type palette struct {
	line string
	bar  string
}

var (
	primaryPalette    = palette{line: PrimaryLineColor, bar: PrimaryBarColor}
	comparisonPalette = palette{line: ComparisonLineColor, bar: ComparisonBarColor}
)

// Assemble builds the score, rank and division charts. The score and rank
// label axes come from the primary dataset only, so a longer or shorter
// comparison series is passed through as is.
func Assemble(in Input) Charts {
	return Charts{
		Score:    assembleLine(KindScore, "Player Score Progression", "Score", in, func(s derive.Series) []float64 { return s.Scores }),
		Rank:     assembleLine(KindRank, "Rank History", "Rank", in, func(s derive.Series) []float64 { return s.Ranks }),
		Division: assembleDivision(in),
	}
}

func assembleLine(kind Kind, title, suffix string, in Input, pick func(derive.Series) []float64) Chart {
	c := newChart(kind, title, in)
	if in.Primary.Status == StatusReady {
		c.Labels = cloneStrings(in.Primary.Series.Labels)
	}
	for _, rp := range rolesOf(in) {
		if rp.part.Status != StatusReady {
			continue
		}
		c.Series = append(c.Series, Series{
			Label: rp.part.Player.DisplayName + " " + suffix,
			Color: rp.palette.line,
			Data:  cloneFloats(pick(rp.part.Series)),
		})
	}
	return c
}

func assembleDivision(in Input) Chart {
	c := newChart(KindDivision, "Division Distribution", in)
	c.Labels = cloneStrings(derive.DivisionNames[:])
	for _, rp := range rolesOf(in) {
		if rp.part.Status != StatusReady {
			continue
		}
		c.Series = append(c.Series, Series{
			Label: rp.part.Player.DisplayName + " Time in Division",
			Color: rp.palette.bar,
			Data:  rp.part.Divisions.Floats(),
		})
	}
	return c
}

type rolePart struct {
	part    Part
	palette palette
}

func rolesOf(in Input) []rolePart {
	parts := []rolePart{{part: in.Primary, palette: primaryPalette}}
	if in.Comparison != nil {
		parts = append(parts, rolePart{part: *in.Comparison, palette: comparisonPalette})
	}
	return parts
}

func newChart(kind Kind, title string, in Input) Chart {
	c := Chart{
		Kind:   kind,
		Title:  title,
		Status: StatusReady,
		Labels: []string{},
		Series: []Series{},
	}
	for _, rp := range rolesOf(in) {
		c.Status = worse(c.Status, rp.part.Status)
		if rp.part.Status == StatusUnavailable {
			msg := rp.part.Player.DisplayName + ": data unavailable"
			if rp.part.Err != nil {
				msg += ": " + rp.part.Err.Error()
			}
			c.Errors = append(c.Errors, msg)
		}
	}
	return c
}

func severity(s Status) int {
	switch s {
	case StatusReady:
		return 0
	case StatusLoading:
		return 1
	default:
		return 2
	}
}

func worse(a, b Status) Status {
	if severity(b) > severity(a) {
		return b
	}
	return a
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneFloats(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
