package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/filtering"
	"github.com/spigell/jobhunter/internal/insights"
	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/matching"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/scoring"
	"github.com/spigell/jobhunter/internal/storage"

	"go.uber.org/zap"
)

type stubProvider struct {
	queries []string
}

func (s *stubProvider) ScoreJob(_ context.Context, _ *profile.Profile, _ *job.Job) (*ai.MatchAssessment, error) {
	return &ai.MatchAssessment{Score: 75, Reason: "good fit"}, nil
}

func (s *stubProvider) ScoreBatch(_ context.Context, _ *profile.Profile, jobs []*job.Job) ([]ai.BatchAssessment, error) {
	results := make([]ai.BatchAssessment, 0, len(jobs))
	for i := range jobs {
		results = append(results, ai.BatchAssessment{Index: i, Score: 60})
	}
	return results, nil
}

func (s *stubProvider) GenerateQueries(_ context.Context, _ *profile.Profile) ([]string, error) {
	return s.queries, nil
}

func (s *stubProvider) CoverLetter(_ context.Context, _ *profile.Profile, _ *job.Job) (string, error) {
	return "Dear team", nil
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		TargetJobTitles: []string{"AI Engineer"},
		TechStack:       []string{"python"},
		SeniorityLevel:  "Senior",
		Email:           "dev@example.com",
		Phone:           "+972-50-0000000",
		LinkedinURL:     "https://linkedin.com/in/dev",
	}
}

func testAgent(t *testing.T, provider matching.Provider, prof *profile.Profile) (*Agent, storage.Store) {
	t.Helper()

	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prefs := profile.DefaultPreferences()
	tracker := insights.NewTracker()
	matcher := matching.New(provider, prof, prefs, nil, tracker, zap.NewNop())

	return New(matcher, nil, tracker, store, prof, prefs, zap.NewNop()), store
}

func TestDispatchCalculateMatch(t *testing.T) {
	t.Parallel()

	ag, _ := testAgent(t, nil, testProfile())

	resp := ag.Dispatch(context.Background(), CalculateMatchRequest{
		Job: &job.Job{Title: "AI Engineer", Location: "Tel Aviv"},
	})

	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}

	result, ok := resp.Data.(*scoring.MatchResult)
	if !ok {
		t.Fatalf("unexpected data type %T", resp.Data)
	}
	if result.Source != scoring.SourceHeuristic {
		t.Fatalf("expected heuristic source without provider, got %q", result.Source)
	}
}

func TestDispatchRejectsMissingJob(t *testing.T) {
	t.Parallel()

	ag, _ := testAgent(t, nil, testProfile())

	for _, req := range []Request{
		CalculateMatchRequest{},
		FilterJobRequest{},
		GenerateCoverLetterRequest{},
		AutoApplyRequest{},
		BatchAnalyzeRequest{},
	} {
		resp := ag.Dispatch(context.Background(), req)
		if resp.Success {
			t.Fatalf("expected %T to fail without a job", req)
		}
		if resp.Message == "" {
			t.Fatalf("expected a failure message for %T", req)
		}
	}
}

func TestDispatchFilterJob(t *testing.T) {
	t.Parallel()

	ag, _ := testAgent(t, nil, testProfile())

	resp := ag.Dispatch(context.Background(), FilterJobRequest{
		Job: &job.Job{Title: "AI Engineer", Company: "Acme"},
	})

	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}
	decision, ok := resp.Data.(filtering.Decision)
	if !ok {
		t.Fatalf("unexpected data type %T", resp.Data)
	}
	if !decision.ShouldShow {
		t.Fatalf("expected the job shown, got %+v", decision)
	}
}

func TestDispatchAutoApply(t *testing.T) {
	t.Parallel()

	ag, _ := testAgent(t, nil, testProfile())

	resp := ag.Dispatch(context.Background(), AutoApplyRequest{
		Job: &job.Job{Title: "AI Engineer", Company: "Acme"},
	})

	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}

	prefill, ok := resp.Data.(*PrefillData)
	if !ok {
		t.Fatalf("unexpected data type %T", resp.Data)
	}
	if prefill.Email != "dev@example.com" || prefill.Linkedin == "" {
		t.Fatalf("unexpected prefill: %+v", prefill)
	}

	summary := ag.Tracker().Insights()
	if summary.ByType[insights.TypeJobApplied] != 1 {
		t.Fatalf("expected an applied interaction tracked, got %+v", summary.ByType)
	}
}

func TestDispatchAutoApplyRequiresProfile(t *testing.T) {
	t.Parallel()

	ag, _ := testAgent(t, nil, nil)

	resp := ag.Dispatch(context.Background(), AutoApplyRequest{
		Job: &job.Job{Title: "AI Engineer", Company: "Acme"},
	})

	if resp.Success {
		t.Fatal("expected failure without a profile")
	}
}

func TestDispatchGenerateQueriesPersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := &stubProvider{queries: []string{"AI Engineer Israel", "RAG Engineer Remote"}}
	ag, store := testAgent(t, provider, testProfile())

	resp := ag.Dispatch(ctx, GenerateQueriesRequest{})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}

	var saved []string
	found, err := storage.GetJSON(ctx, store, storage.KeyLastQueries, &saved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || len(saved) != 2 {
		t.Fatalf("expected queries persisted, found=%v saved=%v", found, saved)
	}
}

func TestDispatchAnalyzeResumeWithoutAnalyzer(t *testing.T) {
	t.Parallel()

	ag, _ := testAgent(t, nil, testProfile())

	resp := ag.Dispatch(context.Background(), AnalyzeResumeRequest{ResumeText: "some resume"})
	if resp.Success {
		t.Fatal("expected failure without an analyzer")
	}
}

func TestHistoryPersistsAcrossAgents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ag, store := testAgent(t, nil, testProfile())

	resp := ag.Dispatch(ctx, TrackInteractionRequest{
		Interaction: insights.Interaction{Type: insights.TypeJobViewed, Company: "Acme"},
	})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}

	prefs := profile.DefaultPreferences()
	tracker := insights.NewTracker()
	matcher := matching.New(nil, testProfile(), prefs, nil, tracker, zap.NewNop())
	restored := New(matcher, nil, tracker, store, testProfile(), prefs, zap.NewNop())

	if err := restored.RestoreHistory(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insightsResp := restored.Dispatch(ctx, GetInsightsRequest{})
	summary, ok := insightsResp.Data.(insights.Summary)
	if !ok {
		t.Fatalf("unexpected data type %T", insightsResp.Data)
	}
	if summary.TotalInteractions != 1 {
		t.Fatalf("expected 1 restored interaction, got %d", summary.TotalInteractions)
	}
}

func TestMatchAllAttachesResults(t *testing.T) {
	t.Parallel()

	ag, _ := testAgent(t, nil, testProfile())

	jobs := &job.Jobs{Items: []*job.Job{
		{Title: "AI Engineer", Location: "Tel Aviv"},
		{Title: "Accountant"},
	}}

	ag.MatchAll(context.Background(), jobs)

	for _, j := range jobs.Items {
		if j.Match == nil {
			t.Fatalf("expected a match attached to %q", j.Title)
		}
		if j.Match.Score < 0 || j.Match.Score > 100 {
			t.Fatalf("score %d out of range", j.Match.Score)
		}
		if !j.Match.Fallback {
			t.Fatal("expected the heuristic result flagged as fallback")
		}
	}
}
