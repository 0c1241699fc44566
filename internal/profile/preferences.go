package profile

import "strings"

// Canonical experience levels as exposed by the job board filters.
const (
	LevelInternship = "internship"
	LevelEntry      = "entry level"
	LevelAssociate  = "associate"
	LevelMidSenior  = "mid-senior level"
	LevelDirector   = "director"
	LevelExecutive  = "executive"
)

// Preferences is the user-controlled filter and weight configuration.
// Its lifecycle is independent from the profile.
type Preferences struct {
	// AutoFilter gates blacklist enforcement. When false the blacklist
	// never hides a job and never contributes a penalty.
	AutoFilter bool `json:"autoFilter" mapstructure:"auto-filter"`

	// BlacklistKeywords is user-owned and empty by default. The agent
	// never pre-populates it.
	BlacklistKeywords []string `json:"blacklistKeywords,omitempty" mapstructure:"blacklist-keywords"`

	PreferredLocations []string `json:"preferredLocations,omitempty" mapstructure:"preferred-locations"`
	ExperienceLevels   []string `json:"experienceLevels,omitempty" mapstructure:"experience-levels"`
	HiddenCompanies    []string `json:"hiddenCompanies,omitempty" mapstructure:"hidden-companies"`
	PreferredCompanies []string `json:"preferredCompanies,omitempty" mapstructure:"preferred-companies"`
}

// DefaultPreferences returns the documented defaults. The blacklist
// stays empty: silently filtering off a list the user never set is a
// defect, not a feature.
func DefaultPreferences() *Preferences {
	return &Preferences{
		AutoFilter:         false,
		PreferredLocations: []string{"Center District", "Tel Aviv", "Remote"},
		ExperienceLevels:   []string{LevelMidSenior},
	}
}

// EffectiveLocations returns the preferred locations, falling back to
// the defaults when unset.
func (p *Preferences) EffectiveLocations() []string {
	if p == nil || len(p.PreferredLocations) == 0 {
		return DefaultPreferences().PreferredLocations
	}
	return p.PreferredLocations
}

// EffectiveLevels returns the preferred experience levels, lowercased,
// falling back to the defaults when unset.
func (p *Preferences) EffectiveLevels() []string {
	levels := DefaultPreferences().ExperienceLevels
	if p != nil && len(p.ExperienceLevels) > 0 {
		levels = p.ExperienceLevels
	}

	result := make([]string, 0, len(levels))
	for _, level := range levels {
		result = append(result, strings.ToLower(strings.TrimSpace(level)))
	}
	return result
}

// BlacklistActive reports whether the negative phase may fire at all.
func (p *Preferences) BlacklistActive() bool {
	return p != nil && p.AutoFilter && len(p.BlacklistKeywords) > 0
}
