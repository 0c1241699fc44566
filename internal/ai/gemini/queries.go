package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/profile"
)

const queriesMaxOutputTokens = 1000

// GenerateQueries asks the provider for targeted job search queries
// derived from the profile. Callers own fallback handling; this method
// only reports failure.
func (s *Scorer) GenerateQueries(ctx context.Context, prof *profile.Profile) ([]string, error) {
	if prof == nil {
		return nil, fmt.Errorf("profile is required")
	}

	pastTitles := strings.Join(prof.PastTitles(), ", ")
	if pastTitles == "" {
		pastTitles = "N/A"
	}

	prompt := fmt.Sprintf(`You are an expert AI recruitment strategist. Based on this user profile, generate 6-8 highly targeted job search queries.

User Profile:
- Skills: %s
- Tech Stack: %s
- Experience: %s
- Seniority: %s
- Summary: %s

REQUIREMENTS:
1. Focus on roles matching the profile's target titles: %s
2. Each query should be 2-4 words maximum
3. Prioritize the strongest profile keywords
4. Include variations: different titles for the same skills

Return ONLY a JSON array of search query strings:
["query1", "query2", "query3", ...]`,
		strings.Join(prof.Skills, ", "),
		strings.Join(prof.TechStack, ", "),
		pastTitles,
		prof.SeniorityLevel,
		prof.Summary,
		strings.Join(prof.TargetJobTitles, ", "),
	)

	raw, err := s.generator.Generate(ctx, prompt, queriesMaxOutputTokens)
	if err != nil {
		return nil, err
	}

	var queries []string
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &queries); err != nil {
		return nil, fmt.Errorf("parse queries response: %w", err)
	}

	return queries, nil
}
