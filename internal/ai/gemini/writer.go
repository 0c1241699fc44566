package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/profile"
)

const coverLetterMaxOutputTokens = 800

// CoverLetter generates an application letter for the job. This is the
// free-text path: the provider's raw text is returned without JSON
// extraction.
func (s *Scorer) CoverLetter(ctx context.Context, prof *profile.Profile, j *job.Job) (string, error) {
	if prof == nil {
		return "", fmt.Errorf("profile is required")
	}
	if j == nil {
		return "", fmt.Errorf("job is required")
	}

	description := j.Description
	if description == "" {
		description = "Not provided"
	}

	firstExperience := "N/A"
	if len(prof.Experience) > 0 {
		firstExperience = fmt.Sprintf("%s at %s", prof.Experience[0].Title, prof.Experience[0].Company)
	}

	prompt := fmt.Sprintf(`You are an expert career coach. Write a compelling, concise cover letter for this job application.

Job Details:
Title: %s
Company: %s
Description: %s

Candidate Profile:
%s
Key Skills: %s
Tech Stack: %s
Experience: %s

REQUIREMENTS:
- 3-4 short paragraphs maximum
- Professional but enthusiastic tone
- Connect skills directly to job requirements
- Show genuine interest in the role
- End with clear call to action

Return the cover letter text directly (no JSON, no quotes).`,
		j.Title,
		j.Company,
		description,
		prof.Summary,
		strings.Join(firstN(prof.Skills, 8), ", "),
		strings.Join(firstN(prof.TechStack, 8), ", "),
		firstExperience,
	)

	raw, err := s.generator.Generate(ctx, prompt, coverLetterMaxOutputTokens)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(raw), nil
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
