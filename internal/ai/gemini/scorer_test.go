package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/profile"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response string
	err      error

	prompts []string
	budgets []int32
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, maxOutputTokens int32) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.budgets = append(s.budgets, maxOutputTokens)

	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Summary:         "AI engineer focused on retrieval systems",
		Skills:          []string{"Python", "RAG"},
		TechStack:       []string{"langchain", "postgres"},
		SeniorityLevel:  "Senior",
		TargetJobTitles: []string{"AI Engineer"},
	}
}

func testJob() *job.Job {
	return &job.Job{
		Title:       "AI Engineer",
		Company:     "Acme",
		Description: "Build retrieval pipelines",
		Location:    "Tel Aviv",
	}
}

func TestScoreJobParsesFencedResponse(t *testing.T) {
	t.Parallel()

	generator := &stubGenerator{response: "```json\n{\"score\": 87, \"reason\": \"strong skill overlap\"}\n```"}
	scorer := NewScorer(generator, zap.NewNop(), 0)

	assessment, err := scorer.ScoreJob(context.Background(), testProfile(), testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 87 {
		t.Fatalf("expected score 87, got %d", assessment.Score)
	}
	if assessment.Reason != "strong skill overlap" {
		t.Fatalf("unexpected reason: %q", assessment.Reason)
	}
	if assessment.Raw == "" {
		t.Fatal("expected the raw response preserved")
	}

	if len(generator.budgets) != 1 || generator.budgets[0] != matchMaxOutputTokens {
		t.Fatalf("expected token budget %d, got %v", matchMaxOutputTokens, generator.budgets)
	}

	prompt := generator.prompts[0]
	for _, fragment := range []string{"AI Engineer", "Acme", "langchain"} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("expected prompt to mention %q", fragment)
		}
	}
}

func TestScoreJobCoercesAndClamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		expected int
	}{
		{name: "string score", response: `{"score": "85", "reason": "ok"}`, expected: 85},
		{name: "fractional score rounds", response: `{"score": 84.6, "reason": "ok"}`, expected: 85},
		{name: "clamped above", response: `{"score": 130, "reason": "ok"}`, expected: 100},
		{name: "clamped below", response: `{"score": -5, "reason": "ok"}`, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scorer := NewScorer(&stubGenerator{response: tt.response}, zap.NewNop(), 0)
			assessment, err := scorer.ScoreJob(context.Background(), testProfile(), testJob())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if assessment.Score != tt.expected {
				t.Fatalf("expected score %d, got %d", tt.expected, assessment.Score)
			}
		})
	}
}

func TestScoreJobRejectsUnusableResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{name: "no score field", response: `{"reason": "who knows"}`},
		{name: "non-numeric score", response: `{"score": "very high"}`},
		{name: "not json at all", response: "I cannot answer that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scorer := NewScorer(&stubGenerator{response: tt.response}, zap.NewNop(), 0)
			if _, err := scorer.ScoreJob(context.Background(), testProfile(), testJob()); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestScoreJobSurfacesGeneratorError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("quota exceeded")
	scorer := NewScorer(&stubGenerator{err: wantErr}, zap.NewNop(), 0)

	if _, err := scorer.ScoreJob(context.Background(), testProfile(), testJob()); !errors.Is(err, wantErr) {
		t.Fatalf("expected the generator error, got %v", err)
	}
}

func TestScoreBatch(t *testing.T) {
	t.Parallel()

	generator := &stubGenerator{
		response: `[{"index": 0, "score": 90, "reason": "fit"}, {"index": 1, "score": -3, "reason": "misfit"}]`,
	}
	scorer := NewScorer(generator, zap.NewNop(), 0)

	jobs := []*job.Job{
		{Title: "AI Engineer", Company: "Acme"},
		{Title: "COBOL Maintainer", Company: "Legacy Inc"},
	}

	results, err := scorer.ScoreBatch(context.Background(), testProfile(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Score != 90 || results[1].Score != 0 {
		t.Fatalf("unexpected scores: %+v", results)
	}

	if generator.budgets[0] != batchMaxOutputTokens {
		t.Fatalf("expected token budget %d, got %d", batchMaxOutputTokens, generator.budgets[0])
	}

	prompt := generator.prompts[0]
	if !strings.Contains(prompt, "1. AI Engineer at Acme") || !strings.Contains(prompt, "2. COBOL Maintainer at Legacy Inc") {
		t.Fatalf("expected numbered job listing in prompt")
	}
}

func TestGenerateQueries(t *testing.T) {
	t.Parallel()

	generator := &stubGenerator{response: "```json\n[\"AI Engineer Israel\", \"RAG Engineer Remote\"]\n```"}
	scorer := NewScorer(generator, zap.NewNop(), 0)

	queries, err := scorer.GenerateQueries(context.Background(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(queries) != 2 || queries[0] != "AI Engineer Israel" {
		t.Fatalf("unexpected queries: %v", queries)
	}

	if generator.budgets[0] != queriesMaxOutputTokens {
		t.Fatalf("expected token budget %d, got %d", queriesMaxOutputTokens, generator.budgets[0])
	}
}

func TestCoverLetterIsFreeText(t *testing.T) {
	t.Parallel()

	letter := "Dear hiring manager,\n\nI am excited to apply for this role at Acme.\n"
	generator := &stubGenerator{response: letter}
	scorer := NewScorer(generator, zap.NewNop(), 0)

	got, err := scorer.CoverLetter(context.Background(), testProfile(), testJob())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != strings.TrimSpace(letter) {
		t.Fatalf("expected the trimmed letter passed through, got %q", got)
	}

	if generator.budgets[0] != coverLetterMaxOutputTokens {
		t.Fatalf("expected token budget %d, got %d", coverLetterMaxOutputTokens, generator.budgets[0])
	}
}
