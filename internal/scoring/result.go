// Package scoring implements the deterministic five-phase job match
// scorer. It is a pure function of the job, profile and preferences:
// no network, no hidden state, cannot fail.
package scoring

// Score sources reported in MatchResult.
const (
	SourceHeuristic = "heuristic"
	SourceAI        = "ai"
)

// Breakdown holds the five phase sub-scores. After the final clamp to
// [0,100] they sum to the reported score.
type Breakdown struct {
	Title     int `json:"title"`
	Location  int `json:"location"`
	Keywords  int `json:"keywords"`
	Negative  int `json:"negative"`
	Seniority int `json:"seniority"`
}

func (b Breakdown) Sum() int {
	return b.Title + b.Location + b.Keywords + b.Negative + b.Seniority
}

// MatchResult is one job's relevance assessment.
type MatchResult struct {
	Score     int       `json:"score"`
	Reason    string    `json:"reason"`
	Breakdown Breakdown `json:"breakdown"`
	Source    string    `json:"source"`
}

// Tier labels by score threshold.
func tierLabel(score int) string {
	switch {
	case score >= 75:
		return "Excellent Match!"
	case score >= 50:
		return "Good Match."
	case score >= 30:
		return "Partial Match."
	default:
		return "Low Match."
	}
}

// fragmentBudget caps how many rationale fragments each tier keeps.
func fragmentBudget(score int) int {
	switch {
	case score >= 75:
		return 0 // unlimited
	case score >= 50:
		return 3
	case score >= 30:
		return 2
	default:
		return 1
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
