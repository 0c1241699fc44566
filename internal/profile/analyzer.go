package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spigell/jobhunter/internal/ai"

	"go.uber.org/zap"
)

const (
	analyzeMaxOutputTokens = 4000

	// The resume text is truncated before prompting; anything past this
	// rarely adds matching signal and wastes the token budget.
	maxResumeChars = 4000
)

// Analyzer derives a normalized Profile from raw resume text through the
// text-generation collaborator. Text extraction from the resume file
// itself is someone else's job.
type Analyzer struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewAnalyzer(generator ai.Generator, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{generator: generator, logger: log}
}

// Analyze prompts the provider for the profile JSON and normalizes the
// result. Configuration problems are surfaced, never silently scored
// around.
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (*Profile, error) {
	if a.generator == nil {
		return nil, errors.New("ai generator is not configured")
	}
	if resumeText == "" {
		return nil, errors.New("resume text is required")
	}

	if len(resumeText) > maxResumeChars {
		resumeText = resumeText[:maxResumeChars]
	}

	prompt := fmt.Sprintf(`Analyze this professional CV/resume and extract relevant keywords for job matching.

Profile:
%s

Return ONLY valid JSON:
{
  "summary": "Brief professional summary",
  "skills": ["Skill 1", "Skill 2", "Skill 3"],
  "techStack": ["Tech1", "Tech2", "Tech3"],
  "seniorityLevel": "Junior|Mid-Level|Senior|Lead|Principal",
  "experience": [{"title": "Job Title", "company": "Company", "duration": "X years", "description": "Brief description"}],
  "dynamicKeywords": ["keyword1", "keyword2", "keyword3"],
  "targetJobTitles": ["Job Title 1", "Job Title 2", "Job Title 3", "Job Title 4", "Job Title 5"],
  "email": "email@example.com",
  "phone": "phone number",
  "linkedinUrl": "https://linkedin.com/in/username"
}

CRITICAL - dynamicKeywords EXTRACTION:
- Extract 15-20 MOST RELEVANT professional keywords from this specific CV
- These should match job postings in this person's field
- Keywords should be 1-3 words each, lowercase
- Include both hard skills AND soft skills relevant to job matching

CRITICAL - targetJobTitles EXTRACTION:
- Extract exactly 5 most relevant job titles this person should search for
- Base titles on their experience, skills, and career level
- Titles should be 2-4 words, properly capitalized
- Match seniority level to experience
- FIRST title should be the BEST match for a job board search

OTHER REQUIREMENTS:
- techStack: max 15 items, simple keywords (no colons or lists)
- skills: professional competencies
- seniorityLevel: infer from experience years and job titles

Return ONLY valid JSON, no other text.`, resumeText)

	raw, err := a.generator.Generate(ctx, prompt, analyzeMaxOutputTokens)
	if err != nil {
		return nil, fmt.Errorf("resume analysis: %w", err)
	}

	var prof Profile
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &prof); err != nil {
		return nil, fmt.Errorf("parse resume analysis response: %w", err)
	}

	prof.Normalize()

	a.logger.Info("resume analyzed",
		zap.Int("skills", len(prof.Skills)),
		zap.Int("dynamic_keywords", len(prof.DynamicKeywords)),
		zap.String("seniority", prof.SeniorityLevel),
	)

	return &prof, nil
}
