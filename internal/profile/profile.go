// Package profile holds the normalized user profile derived from a
// resume and the user-controlled matching preferences.
package profile

import "strings"

const (
	// MaxTechStack caps the tech stack at short keywords only.
	MaxTechStack = 15
	// TargetTitleCount is the ranked target-title list size. The first
	// entry is the primary search title.
	TargetTitleCount = 5
)

// Profile is derived once from a resume and stored until re-derived.
// Every consumer must tolerate a nil profile.
type Profile struct {
	Summary         string       `json:"summary,omitempty"`
	Skills          []string     `json:"skills,omitempty"`
	TechStack       []string     `json:"techStack,omitempty"`
	DynamicKeywords []string     `json:"dynamicKeywords,omitempty"`
	TargetJobTitles []string     `json:"targetJobTitles,omitempty"`
	SeniorityLevel  string       `json:"seniorityLevel,omitempty"`
	Experience      []Experience `json:"experience,omitempty"`

	// Contact fields are used only by the auto-apply prefill,
	// never by scoring.
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`
	Portfolio   string `json:"portfolio,omitempty"`
}

type Experience struct {
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Normalize enforces the profile shape contract: tech stack capped and
// stripped of phrases, target titles trimmed to the ranked five,
// matching keywords lowercased.
func (p *Profile) Normalize() {
	p.TechStack = normalizeKeywords(p.TechStack, MaxTechStack)
	p.DynamicKeywords = lowercaseAll(p.DynamicKeywords)

	titles := make([]string, 0, TargetTitleCount)
	for _, title := range p.TargetJobTitles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if len(titles) == TargetTitleCount {
			break
		}
	}
	p.TargetJobTitles = titles

	p.SeniorityLevel = strings.TrimSpace(p.SeniorityLevel)
}

// PastTitles returns the titles from the experience entries.
func (p *Profile) PastTitles() []string {
	if p == nil {
		return nil
	}

	titles := make([]string, 0, len(p.Experience))
	for _, exp := range p.Experience {
		if title := strings.TrimSpace(exp.Title); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

// PrimaryKeywords is the matching vocabulary for the keyword phase:
// dynamic keywords when present, otherwise the first twenty of tech
// stack plus skills.
func (p *Profile) PrimaryKeywords() []string {
	if p == nil {
		return nil
	}

	if len(p.DynamicKeywords) > 0 {
		return lowercaseAll(p.DynamicKeywords)
	}

	combined := lowercaseAll(append(append([]string{}, p.TechStack...), p.Skills...))
	if len(combined) > 20 {
		combined = combined[:20]
	}
	return combined
}

func normalizeKeywords(keywords []string, limit int) []string {
	result := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" || strings.ContainsAny(keyword, ":;") {
			continue
		}
		result = append(result, keyword)
		if len(result) == limit {
			break
		}
	}
	return result
}

func lowercaseAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
