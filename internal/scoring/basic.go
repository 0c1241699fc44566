package scoring

import (
	"strings"

	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/profile"
)

// BasicScore is the cheap midpoint-anchored scorer used when a batch
// analysis falls back: title and company only, no phases, no rationale.
// Without any profile signal it stays at the fixed midpoint of 50.
func BasicScore(j *job.Job, prof *profile.Profile, prefs *profile.Preferences) int {
	jobText := strings.ToLower(j.Title + " " + j.Company)
	score := 50

	if prof != nil {
		for _, tech := range prof.TechStack {
			if strings.Contains(jobText, strings.ToLower(tech)) {
				score += 5
			}
		}
		for _, skill := range prof.Skills {
			if strings.Contains(jobText, strings.ToLower(skill)) {
				score += 3
			}
		}
	}

	if prefs.BlacklistActive() {
		for _, keyword := range prefs.BlacklistKeywords {
			if strings.Contains(jobText, strings.ToLower(keyword)) {
				score -= 20
			}
		}
	}

	return clamp(score, 0, 100)
}
