package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/profile"

	"go.uber.org/zap"
)

//go:embed prompt.md
var matchPromptTemplate string

const (
	defaultMaxLogLength = 200

	matchMaxOutputTokens = 500
	batchMaxOutputTokens = 1500
)

// Scorer turns a generator into job match assessments.
type Scorer struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(generator ai.Generator, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Scorer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ScoreJob asks the provider to score one job against the profile.
// The response must parse into a single {score, reason} object.
func (s *Scorer) ScoreJob(ctx context.Context, prof *profile.Profile, j *job.Job) (*ai.MatchAssessment, error) {
	if prof == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if j == nil {
		return nil, fmt.Errorf("job is required")
	}

	prompt, err := buildMatchPrompt(prof, j)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini match request",
		zap.String("job_title", j.Title),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.Generate(ctx, prompt, matchMaxOutputTokens)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini match response",
		zap.String("job_title", j.Title),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	assessment, err := parseMatchResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

// ScoreBatch scores several jobs with one combined request, avoiding
// concurrent-call fan-out. The response is an array of indexed entries.
func (s *Scorer) ScoreBatch(ctx context.Context, prof *profile.Profile, jobs []*job.Job) ([]ai.BatchAssessment, error) {
	if prof == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("at least one job is required")
	}

	var listing strings.Builder
	for i, j := range jobs {
		fmt.Fprintf(&listing, "%d. %s at %s\n", i+1, j.Title, j.Company)
	}

	prompt := fmt.Sprintf(`You are an expert job matching AI. Analyze these job postings against the user's profile and score each one.

User Profile:
- Skills: %s
- Tech Stack: %s
- Seniority: %s
- Summary: %s

SCORING CRITERIA (0-100): reward profile keyword and tech stack matches, senior-level fit and preferred locations; penalize explicitly disfavored legacy technology heavily.

Jobs to analyze:
%s
Return ONLY a JSON array of objects:
[
  {"index": 0, "score": 95, "reason": "<one sentence>"},
  ...
]`,
		strings.Join(prof.Skills, ", "),
		strings.Join(prof.TechStack, ", "),
		prof.SeniorityLevel,
		prof.Summary,
		listing.String(),
	)

	raw, err := s.generator.Generate(ctx, prompt, batchMaxOutputTokens)
	if err != nil {
		return nil, err
	}

	var results []ai.BatchAssessment
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &results); err != nil {
		return nil, fmt.Errorf("parse batch response: %w", err)
	}

	for i := range results {
		results[i].Score = clampScore(results[i].Score)
	}

	s.logger.Debug("gemini batch response", zap.Int("scored", len(results)))

	return results, nil
}

func buildMatchPrompt(prof *profile.Profile, j *job.Job) (string, error) {
	profilePayload := map[string]any{
		"skills":    prof.Skills,
		"techStack": prof.TechStack,
		"seniority": prof.SeniorityLevel,
		"summary":   prof.Summary,
	}

	profileJSON, err := json.MarshalIndent(profilePayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	jobPayload := map[string]any{
		"title":       j.Title,
		"company":     j.Company,
		"description": j.Description,
		"location":    j.Location,
	}

	jobJSON, err := json.MarshalIndent(jobPayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	template := matchPromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_JSON}}\n\nProfile:\n{{PROFILE_JSON}}\n\nJSON Response:"
	}

	prompt := strings.ReplaceAll(template, "{{JOB_JSON}}", string(jobJSON))
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_JSON}}", string(profileJSON))
	return prompt, nil
}

func parseMatchResponse(raw string) (*ai.MatchAssessment, error) {
	cleaned := ai.ExtractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse match response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		return nil, fmt.Errorf("match response has no usable score")
	}

	return &ai.MatchAssessment{
		Score:  clampScore(int(math.Round(score))),
		Reason: coerceString(data["reason"]),
	}, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
