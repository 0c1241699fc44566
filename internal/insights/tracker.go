// Package insights keeps the append-only interaction log and the derived
// per-company and per-type counters behind it.
package insights

import (
	"sort"
	"sync"
	"time"
)

// Interaction types recorded by the agent.
const (
	TypeJobViewed            = "job_viewed"
	TypeJobClicked           = "job_clicked"
	TypeJobApplied           = "job_applied"
	TypeJobScored            = "job_scored"
	TypeCoverLetterGenerated = "cover_letter_generated"
)

// maxHistory bounds the interaction log. The oldest entry is evicted
// first on overflow.
const maxHistory = 500

// Interaction is one recorded event.
type Interaction struct {
	Type      string    `json:"type"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	Company   string    `json:"company,omitempty"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// CompanyStats holds per-company counters keyed by interaction type.
type CompanyStats struct {
	Company      string `json:"company"`
	Views        int    `json:"views"`
	Clicks       int    `json:"clicks"`
	Applications int    `json:"applications"`
}

// Summary answers the insights query.
type Summary struct {
	TotalInteractions int            `json:"totalInteractions"`
	Last7Days         int            `json:"last7Days"`
	Last30Days        int            `json:"last30Days"`
	TopCompanies      []CompanyStats `json:"topCompanies"`
	ByType            map[string]int `json:"interactionBreakdown"`
}

// Snapshot is the persistable state of a tracker.
type Snapshot struct {
	History   []Interaction  `json:"history"`
	ByType    map[string]int `json:"byType"`
	Companies []CompanyStats `json:"companies"`
}

// Tracker owns the history ring buffer and the incrementally maintained
// aggregates. All mutation goes through its methods.
type Tracker struct {
	mu      sync.Mutex
	history []Interaction
	byType  map[string]int

	companies    map[string]*CompanyStats
	companyOrder []string

	now func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		byType:    make(map[string]int),
		companies: make(map[string]*CompanyStats),
		now:       time.Now,
	}
}

// Record appends the interaction to the history, evicting the oldest
// entry past the cap, and updates the derived counters.
func (t *Tracker) Record(interaction Interaction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if interaction.Timestamp.IsZero() {
		interaction.Timestamp = t.now()
	}

	t.history = append(t.history, interaction)
	if len(t.history) > maxHistory {
		t.history = t.history[len(t.history)-maxHistory:]
	}

	t.byType[interaction.Type]++

	if interaction.Company == "" {
		return
	}

	stats, ok := t.companies[interaction.Company]
	if !ok {
		stats = &CompanyStats{Company: interaction.Company}
		t.companies[interaction.Company] = stats
		t.companyOrder = append(t.companyOrder, interaction.Company)
	}

	switch interaction.Type {
	case TypeJobViewed:
		stats.Views++
	case TypeJobClicked:
		stats.Clicks++
	case TypeJobApplied:
		stats.Applications++
	}
}

// Insights computes the summary. The trailing-window counts come from
// timestamp filtering over the history rather than extra counters.
func (t *Tracker) Insights() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	last7 := 0
	last30 := 0
	for _, interaction := range t.history {
		age := now.Sub(interaction.Timestamp)
		if age < 7*24*time.Hour {
			last7++
		}
		if age < 30*24*time.Hour {
			last30++
		}
	}

	byType := make(map[string]int, len(t.byType))
	for k, v := range t.byType {
		byType[k] = v
	}

	return Summary{
		TotalInteractions: len(t.history),
		Last7Days:         last7,
		Last30Days:        last30,
		TopCompanies:      t.topCompanies(5),
		ByType:            byType,
	}
}

// topCompanies ranks companies by clicks + applications descending.
// Ties keep first-seen order, so the sort must be stable.
func (t *Tracker) topCompanies(n int) []CompanyStats {
	ranked := make([]CompanyStats, 0, len(t.companyOrder))
	for _, name := range t.companyOrder {
		ranked = append(ranked, *t.companies[name])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Clicks+ranked[i].Applications > ranked[j].Clicks+ranked[j].Applications
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Snapshot returns a copy of the tracker state for persistence.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		History: append([]Interaction(nil), t.history...),
		ByType:  make(map[string]int, len(t.byType)),
	}
	for k, v := range t.byType {
		snap.ByType[k] = v
	}
	for _, name := range t.companyOrder {
		snap.Companies = append(snap.Companies, *t.companies[name])
	}
	return snap
}

// Restore replaces the tracker state with a previously taken snapshot.
func (t *Tracker) Restore(snap Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append([]Interaction(nil), snap.History...)
	if len(t.history) > maxHistory {
		t.history = t.history[len(t.history)-maxHistory:]
	}

	t.byType = make(map[string]int, len(snap.ByType))
	for k, v := range snap.ByType {
		t.byType[k] = v
	}

	t.companies = make(map[string]*CompanyStats, len(snap.Companies))
	t.companyOrder = t.companyOrder[:0]
	for _, stats := range snap.Companies {
		s := stats
		t.companies[s.Company] = &s
		t.companyOrder = append(t.companyOrder, s.Company)
	}
}
