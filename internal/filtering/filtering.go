// Package filtering decides which jobs are shown, hidden or highlighted,
// and runs collection-level filter pipelines before scoring.
package filtering

import (
	"fmt"
	"strings"

	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/profile"

	"go.uber.org/zap"
)

// Actions a presentation layer can take on a job.
const (
	ActionHide      = "hide"
	ActionShow      = "show"
	ActionHighlight = "highlight"
)

// highlightThreshold is the priority-keyword count that promotes a job
// from show to highlight.
const highlightThreshold = 3

// preferredCompanyBonus is added to the priority of preferred companies.
const preferredCompanyBonus = 5

// Decision is the per-job filtering verdict.
type Decision struct {
	ShouldShow bool   `json:"shouldShow"`
	Reason     string `json:"reason"`
	Action     string `json:"action"`
	Priority   int    `json:"priority,omitempty"`
}

// Decide applies the user's filters to one job. The blacklist only ever
// hides a job when auto-filtering is explicitly enabled and the user
// supplied keywords; otherwise it has no effect here.
func Decide(j *job.Job, prof *profile.Profile, prefs *profile.Preferences) Decision {
	jobText := strings.ToLower(j.Title + " " + j.Company + " " + j.Description)

	if prefs.BlacklistActive() {
		for _, keyword := range prefs.BlacklistKeywords {
			if strings.Contains(jobText, strings.ToLower(keyword)) {
				return Decision{
					ShouldShow: false,
					Reason:     fmt.Sprintf("Contains excluded keyword: %s", keyword),
					Action:     ActionHide,
				}
			}
		}
	}

	if prefs != nil {
		for _, company := range prefs.HiddenCompanies {
			if company == j.Company {
				return Decision{
					ShouldShow: false,
					Reason:     "Company hidden by user",
					Action:     ActionHide,
				}
			}
		}
	}

	// Priority keywords come from the profile's tech stack, never from
	// a built-in list.
	priority := 0
	if prof != nil {
		for _, keyword := range prof.TechStack {
			if strings.Contains(jobText, strings.ToLower(keyword)) {
				priority++
			}
		}
	}

	action := ActionShow
	if priority >= highlightThreshold {
		action = ActionHighlight
	}

	reason := "Normal job"
	if priority > 0 {
		reason = fmt.Sprintf("Matches %d priority keywords", priority)
	}

	total := priority
	if prefs != nil {
		for _, company := range prefs.PreferredCompanies {
			if company == j.Company {
				total += preferredCompanyBonus
				break
			}
		}
	}

	return Decision{
		ShouldShow: true,
		Reason:     reason,
		Action:     action,
		Priority:   total,
	}
}

// Filter represents a single filtering step applied to a jobs list.
type Filter interface {
	Name() string
	Apply(deps Deps, jobs *job.Jobs) (*job.Jobs, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger *zap.Logger
	Prof   *profile.Profile
	Prefs  *profile.Preferences
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially.
func Run(deps Deps, steps []Filter, jobs *job.Jobs) (*job.Jobs, error) {
	for _, step := range steps {
		next, info, err := step.Apply(deps, jobs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		jobs = next
	}

	return jobs, nil
}
