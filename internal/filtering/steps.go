package filtering

import (
	"strings"

	"github.com/spigell/jobhunter/internal/job"

	"go.uber.org/zap"
)

type blacklistFilter struct{}

// NewBlacklist creates a filter that drops jobs matching the user's
// blacklist. It is inert unless auto-filtering is enabled.
func NewBlacklist() Filter {
	return &blacklistFilter{}
}

func (f *blacklistFilter) Name() string { return "blacklist" }

func (f *blacklistFilter) Apply(deps Deps, jobs *job.Jobs) (*job.Jobs, Step, error) {
	initial := jobs.Len()
	if !deps.Prefs.BlacklistActive() {
		return jobs, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]*job.Job, 0, initial)
	var excluded []string
	for _, j := range jobs.Items {
		decision := Decide(j, deps.Prof, deps.Prefs)
		if decision.ShouldShow {
			kept = append(kept, j)
			continue
		}
		excluded = append(excluded, j.Title)
	}
	jobs.Items = kept

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding jobs by blacklist",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

type hiddenCompaniesFilter struct{}

// NewHiddenCompanies creates a filter that drops jobs from companies the
// user hid.
func NewHiddenCompanies() Filter {
	return &hiddenCompaniesFilter{}
}

func (f *hiddenCompaniesFilter) Name() string { return "hidden_companies" }

func (f *hiddenCompaniesFilter) Apply(deps Deps, jobs *job.Jobs) (*job.Jobs, Step, error) {
	initial := jobs.Len()
	if deps.Prefs == nil || len(deps.Prefs.HiddenCompanies) == 0 {
		return jobs, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded := jobs.Exclude(job.CompanyField, deps.Prefs.HiddenCompanies)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding jobs by hidden companies",
			zap.Strings("hidden_companies", deps.Prefs.HiddenCompanies),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

type minScoreFilter struct {
	min int
}

// NewMinScore creates a filter that drops already-scored jobs below the
// minimum match score. Unscored jobs pass through.
func NewMinScore(min int) Filter {
	return &minScoreFilter{min: min}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Apply(deps Deps, jobs *job.Jobs) (*job.Jobs, Step, error) {
	initial := jobs.Len()
	if f.min <= 0 {
		return jobs, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]*job.Job, 0, initial)
	var excluded []string
	for _, j := range jobs.Items {
		if j.Match != nil && j.Match.Error == "" && j.Match.Score < f.min {
			excluded = append(excluded, j.Title)
			continue
		}
		kept = append(kept, j)
	}
	jobs.Items = kept

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding jobs below minimum score",
			zap.Int("min_score", f.min),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

// titleKeywordFilter drops jobs whose title misses every provided
// keyword. Used by the match command's optional --require flag.
type titleKeywordFilter struct {
	keywords []string
}

func NewTitleKeywords(keywords []string) Filter {
	return &titleKeywordFilter{keywords: keywords}
}

func (f *titleKeywordFilter) Name() string { return "title_keywords" }

func (f *titleKeywordFilter) Apply(deps Deps, jobs *job.Jobs) (*job.Jobs, Step, error) {
	initial := jobs.Len()
	if len(f.keywords) == 0 {
		return jobs, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]*job.Job, 0, initial)
	var excluded []string
	for _, j := range jobs.Items {
		title := strings.ToLower(j.Title)
		matched := false
		for _, keyword := range f.keywords {
			if strings.Contains(title, strings.ToLower(keyword)) {
				matched = true
				break
			}
		}
		if matched {
			kept = append(kept, j)
		} else {
			excluded = append(excluded, j.Title)
		}
	}
	jobs.Items = kept

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding jobs by required title keywords",
			zap.Strings("keywords", f.keywords),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}
