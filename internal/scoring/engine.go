package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/synonyms"
)

const (
	// Phase weights.
	titleWeight        = 50
	directTitlePoints  = 45
	partialTitlePoints = 35
	locationPoints     = 20
	remoteLocationPts  = 18
	keywordCap         = 20
	keywordCapDegraded = 30
	seniorityPoints    = 10
	negativeFloor      = -30
	negativePenalty    = 10

	// Descriptions below this length carry no usable signal; the title
	// phase compensates.
	degradedDescriptionLen = 50

	maxTitleBoost = 15
)

var seniorityQualifiers = regexp.MustCompile(`(?i)senior|junior|lead|principal|staff`)

// Engine scores jobs against an optional profile and preferences.
type Engine struct {
	prof  *profile.Profile
	prefs *profile.Preferences
}

func NewEngine(prof *profile.Profile, prefs *profile.Preferences) *Engine {
	return &Engine{prof: prof, prefs: prefs}
}

// Score runs the five phases in order, sums and clamps. The phases only
// share the jobText computed once upfront; within the title phase the
// priority tiers short-circuit first-match-wins.
func (e *Engine) Score(j *job.Job) *MatchResult {
	jobTitle := strings.ToLower(j.Title)
	jobText := j.SearchText()
	degraded := len(j.Description) < degradedDescriptionLen

	var fragments []string
	if degraded {
		fragments = append(fragments, "title-only analysis (no job description)")
	}

	titleScore, fragments := e.titlePhase(jobTitle, degraded, fragments)
	locationScore, fragments := e.locationPhase(jobText, fragments)
	keywordScore, fragments := e.keywordPhase(jobText, degraded, fragments)
	negativeScore, fragments := e.negativePhase(jobText, fragments)
	seniorityScore, fragments := e.seniorityPhase(jobTitle, jobText, fragments)

	breakdown := Breakdown{
		Title:     titleScore,
		Location:  locationScore,
		Keywords:  keywordScore,
		Negative:  negativeScore,
		Seniority: seniorityScore,
	}

	score := clamp(breakdown.Sum(), 0, 100)

	return &MatchResult{
		Score:     score,
		Reason:    buildReason(score, fragments),
		Breakdown: breakdown,
		Source:    SourceHeuristic,
	}
}

// titlePhase walks the priority tiers a-d in declared order; the first
// tier that produces a score wins.
func (e *Engine) titlePhase(jobTitle string, degraded bool, fragments []string) (int, []string) {
	targets := e.targetTitles()

	score := 0
	matched := false

	// Tier a: direct substring match, seniority qualifiers stripped from
	// the job side for the reverse comparison.
	strippedJob := strings.TrimSpace(strings.Join(strings.Fields(seniorityQualifiers.ReplaceAllString(jobTitle, "")), " "))
	for _, target := range targets {
		if strings.Contains(jobTitle, target) || (strippedJob != "" && strings.Contains(target, strippedJob)) {
			score = directTitlePoints
			matched = true
			fragments = append(fragments, fmt.Sprintf("title: direct match with %q (+%d)", target, directTitlePoints))
			break
		}
	}

	// Tier b: word overlap.
	if !matched {
		jobWords := significantWords(jobTitle)
		for _, target := range targets {
			targetWords := significantWords(target)
			overlap := 0
			for _, tw := range targetWords {
				for _, jw := range jobWords {
					if strings.Contains(jw, tw) || strings.Contains(tw, jw) {
						overlap++
						break
					}
				}
			}
			if overlap >= 2 || (len(targetWords) <= 2 && overlap >= 1) {
				score = partialTitlePoints
				matched = true
				fragments = append(fragments, fmt.Sprintf("title: partial match with %q (+%d)", target, partialTitlePoints))
				break
			}
		}
	}

	// Tier c: keyword overlap derived from the profile's own past titles
	// and skills, synonym-expanded. The denominator is capped at 5 so a
	// keyword-rich profile does not dilute its own ratio.
	if !matched {
		keywords := e.titleKeywords()
		if len(keywords) > 0 {
			expanded := synonyms.Expand(keywords)
			matches := 0
			for _, keyword := range expanded {
				if strings.Contains(jobTitle, keyword) {
					matches++
				}
			}

			denominator := len(expanded)
			if denominator > 5 {
				denominator = 5
			}
			if denominator > 0 {
				ratio := float64(matches) / float64(denominator)
				score = clamp(int(math.Round(ratio*titleWeight)), 0, titleWeight)
				if score > 0 {
					matched = true
					fragments = append(fragments, fmt.Sprintf("title: keyword match (+%d)", score))
				}
			}
		}
	}

	// Tier d: generic fallback table, first match wins.
	if !matched {
		generic := []struct {
			keywords []string
			points   int
			label    string
		}{
			{[]string{"engineer", "developer"}, 25, "engineer/developer"},
			{[]string{"architect", "lead"}, 30, "architect/lead"},
			{[]string{"manager", "director"}, 20, "manager/director"},
		}
		for _, group := range generic {
			if containsAny(jobTitle, group.keywords) {
				score = group.points
				fragments = append(fragments, fmt.Sprintf("title: generic %s match (+%d)", group.label, group.points))
				break
			}
		}
	}

	// Degraded input: without a description the title carries the match,
	// so compensate while staying within the phase weight.
	if degraded && score > 0 && score < titleWeight {
		boost := titleWeight - score
		if boost > maxTitleBoost {
			boost = maxTitleBoost
		}
		score += boost
		fragments = append(fragments, fmt.Sprintf("title boost, no description (+%d)", boost))
	}

	return score, fragments
}

func (e *Engine) locationPhase(jobText string, fragments []string) (int, []string) {
	for _, location := range e.prefs.EffectiveLocations() {
		location = strings.ToLower(location)
		if strings.Contains(jobText, location) {
			fragments = append(fragments, fmt.Sprintf("location: %s (+%d)", location, locationPoints))
			return locationPoints, fragments
		}
	}

	if strings.Contains(jobText, "remote") || strings.Contains(jobText, "hybrid") {
		fragments = append(fragments, fmt.Sprintf("location: remote/hybrid (+%d)", remoteLocationPts))
		return remoteLocationPts, fragments
	}

	return 0, fragments
}

func (e *Engine) keywordPhase(jobText string, degraded bool, fragments []string) (int, []string) {
	expanded := synonyms.Expand(e.prof.PrimaryKeywords())

	score := 0
	var matches []string
	for _, keyword := range expanded {
		if !strings.Contains(jobText, keyword) {
			continue
		}
		// Reward breadth for the first five distinct matches, then taper.
		if len(matches) < 5 {
			score += 4
		} else {
			score += 2
		}
		matches = append(matches, keyword)
	}

	limit := keywordCap
	if degraded {
		limit = keywordCapDegraded
		if len(matches) > 0 {
			// Compensate for the lost description signal.
			score += 10
		}
	}
	if score > limit {
		score = limit
	}

	if len(matches) > 0 {
		preview := matches
		if len(preview) > 5 {
			preview = preview[:5]
		}
		fragments = append(fragments, fmt.Sprintf("keywords: %s (+%d)", strings.Join(preview, ", "), score))
	}

	return score, fragments
}

// negativePhase never fires unless the user explicitly enabled
// auto-filtering and supplied a blacklist.
func (e *Engine) negativePhase(jobText string, fragments []string) (int, []string) {
	if !e.prefs.BlacklistActive() {
		return 0, fragments
	}

	score := 0
	var matches []string
	for _, keyword := range e.prefs.BlacklistKeywords {
		if strings.Contains(jobText, strings.ToLower(keyword)) {
			score -= negativePenalty
			matches = append(matches, keyword)
		}
	}

	if score < negativeFloor {
		score = negativeFloor
	}

	if len(matches) > 0 {
		fragments = append(fragments, fmt.Sprintf("blacklist: %s (%d)", strings.Join(matches, ", "), score))
	}

	return score, fragments
}

type levelFamily struct {
	keywords []string
	level    string
	label    string
}

// Families checked against the full job text, in declared order.
var experienceLevelFamilies = []levelFamily{
	{[]string{"intern", "internship"}, profile.LevelInternship, "Internship"},
	{[]string{"entry level", "entry-level", "junior", "jr.", "graduate", "trainee"}, profile.LevelEntry, "Entry Level"},
	{[]string{"associate"}, profile.LevelAssociate, "Associate"},
	{[]string{"senior", "sr.", "staff", "mid-senior", "experienced"}, profile.LevelMidSenior, "Mid-Senior Level"},
	{[]string{"director", "head of", "vp", "vice president"}, profile.LevelDirector, "Director"},
	{[]string{"executive", "c-level", "cto", "ceo", "cfo", "chief"}, profile.LevelExecutive, "Executive"},
	{[]string{"lead", "principal", "architect", "manager"}, profile.LevelMidSenior, "Lead/Principal"},
}

// Secondary table keyed off the job title only, compared against the
// profile's own seniority string.
var titleSeniorityLevels = []struct {
	keywords []string
	points   int
	label    string
}{
	{[]string{"senior", "sr.", "staff"}, 8, "Senior/Staff"},
	{[]string{"lead", "principal", "architect"}, 8, "Lead/Principal"},
	{[]string{"mid-level", "mid level", "intermediate"}, 7, "Mid-Level"},
	{[]string{"junior", "jr.", "entry level"}, 5, "Junior"},
}

func (e *Engine) seniorityPhase(jobTitle, jobText string, fragments []string) (int, []string) {
	for _, family := range experienceLevelFamilies {
		if !containsAny(jobText, family.keywords) {
			continue
		}

		preferred := false
		for _, userLevel := range e.prefs.EffectiveLevels() {
			if strings.Contains(family.level, userLevel) || strings.Contains(userLevel, family.level) {
				preferred = true
				break
			}
		}

		score := seniorityPoints
		note := "preferred"
		if !preferred {
			score = seniorityPoints - 5
			note = "not preferred"
		}
		fragments = append(fragments, fmt.Sprintf("experience: %s, %s (+%d)", family.label, note, score))
		return score, fragments
	}

	userSeniority := ""
	if e.prof != nil {
		userSeniority = strings.ToLower(e.prof.SeniorityLevel)
	}

	for _, level := range titleSeniorityLevels {
		if !containsAny(jobTitle, level.keywords) {
			continue
		}

		score := level.points - 3
		if userSeniority != "" && containsAny(userSeniority, level.keywords) {
			score = level.points
		}
		fragments = append(fragments, fmt.Sprintf("seniority: %s (+%d)", level.label, score))
		return score, fragments
	}

	return 0, fragments
}

// targetTitles prefers the profile's ranked titles and falls back to
// the static table when no profile is configured.
func (e *Engine) targetTitles() []string {
	if e.prof != nil && len(e.prof.TargetJobTitles) > 0 {
		titles := make([]string, 0, len(e.prof.TargetJobTitles))
		for _, title := range e.prof.TargetJobTitles {
			titles = append(titles, strings.ToLower(title))
		}
		return titles
	}
	return synonyms.DefaultTargetTitles
}

// titleKeywords builds the tier-c vocabulary from the profile's past
// job titles and skills.
func (e *Engine) titleKeywords() []string {
	if e.prof == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var keywords []string
	add := func(text string) {
		for _, word := range significantWords(strings.ToLower(text)) {
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			keywords = append(keywords, word)
		}
	}

	for _, title := range e.prof.PastTitles() {
		add(title)
	}
	for _, skill := range e.prof.Skills {
		add(skill)
	}

	return keywords
}

func buildReason(score int, fragments []string) string {
	label := tierLabel(score)

	if len(fragments) == 0 {
		return label + " Few matching keywords"
	}

	if budget := fragmentBudget(score); budget > 0 && len(fragments) > budget {
		fragments = fragments[:budget]
	}

	return label + " " + strings.Join(fragments, "; ")
}

func significantWords(text string) []string {
	var words []string
	for _, word := range strings.Fields(text) {
		if len(word) > 2 {
			words = append(words, word)
		}
	}
	return words
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
