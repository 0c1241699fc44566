// Package agent exposes the core as a closed set of typed commands with
// a single dispatch entry point. This replaces the stringly-typed
// message routing of earlier iterations: every request variant carries a
// typed payload and produces a typed result.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

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

// Request is the closed set of commands the agent accepts.
type Request interface {
	isRequest()
}

type CalculateMatchRequest struct{ Job *job.Job }
type BatchAnalyzeRequest struct{ Jobs []*job.Job }
type FilterJobRequest struct{ Job *job.Job }
type GenerateQueriesRequest struct{}
type GenerateCoverLetterRequest struct{ Job *job.Job }
type AnalyzeResumeRequest struct{ ResumeText string }
type TrackInteractionRequest struct{ Interaction insights.Interaction }
type GetInsightsRequest struct{}
type AutoApplyRequest struct{ Job *job.Job }

func (CalculateMatchRequest) isRequest()      {}
func (BatchAnalyzeRequest) isRequest()        {}
func (FilterJobRequest) isRequest()           {}
func (GenerateQueriesRequest) isRequest()     {}
func (GenerateCoverLetterRequest) isRequest() {}
func (AnalyzeResumeRequest) isRequest()       {}
func (TrackInteractionRequest) isRequest()    {}
func (GetInsightsRequest) isRequest()         {}
func (AutoApplyRequest) isRequest()           {}

// Response always carries an explicit success flag and a human-readable
// message. A failure is never a silently-zeroed score.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// BatchResult pairs batch assessments with the fallback flag.
type BatchResult struct {
	Results  []ai.BatchAssessment `json:"results"`
	Fallback bool                 `json:"fallback,omitempty"`
}

// PrefillData is what the auto-apply collaborator needs to fill an
// application form.
type PrefillData struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Linkedin string `json:"linkedin"`
	Message  string `json:"message"`
}

// Agent wires the core components together behind the dispatcher.
type Agent struct {
	matcher  *matching.Matcher
	analyzer *profile.Analyzer
	tracker  *insights.Tracker
	store    storage.Store
	prof     *profile.Profile
	prefs    *profile.Preferences
	logger   *zap.Logger
}

func New(matcher *matching.Matcher, analyzer *profile.Analyzer, tracker *insights.Tracker, store storage.Store, prof *profile.Profile, prefs *profile.Preferences, log *zap.Logger) *Agent {
	if log == nil {
		log = zap.NewNop()
	}
	if tracker == nil {
		tracker = insights.NewTracker()
	}

	return &Agent{
		matcher:  matcher,
		analyzer: analyzer,
		tracker:  tracker,
		store:    store,
		prof:     prof,
		prefs:    prefs,
		logger:   log,
	}
}

func (a *Agent) Tracker() *insights.Tracker { return a.tracker }

// Dispatch routes the request to its handler and wraps the outcome.
func (a *Agent) Dispatch(ctx context.Context, req Request) Response {
	data, err := a.handle(ctx, req)
	if err != nil {
		a.logger.Warn("request failed",
			zap.String("request", fmt.Sprintf("%T", req)),
			zap.Error(err),
		)
		return Response{Success: false, Message: err.Error()}
	}

	return Response{Success: true, Data: data}
}

func (a *Agent) handle(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case CalculateMatchRequest:
		if r.Job == nil {
			return nil, fmt.Errorf("job is required")
		}
		return a.matcher.CalculateMatch(ctx, r.Job), nil

	case BatchAnalyzeRequest:
		if len(r.Jobs) == 0 {
			return nil, fmt.Errorf("at least one job is required")
		}
		results, fallback := a.matcher.BatchAnalyze(ctx, r.Jobs)
		return &BatchResult{Results: results, Fallback: fallback}, nil

	case FilterJobRequest:
		if r.Job == nil {
			return nil, fmt.Errorf("job is required")
		}
		return filtering.Decide(r.Job, a.prof, a.prefs), nil

	case GenerateQueriesRequest:
		result, err := a.matcher.GenerateQueries(ctx)
		if err != nil {
			return nil, err
		}
		a.persistQueries(ctx, result)
		return result, nil

	case GenerateCoverLetterRequest:
		if r.Job == nil {
			return nil, fmt.Errorf("job is required")
		}
		letter, err := a.matcher.CoverLetter(ctx, r.Job)
		if err != nil {
			return nil, err
		}
		a.persistHistory(ctx)
		return letter, nil

	case AnalyzeResumeRequest:
		if a.analyzer == nil {
			return nil, matching.ErrCredentialNotConfigured
		}
		prof, err := a.analyzer.Analyze(ctx, r.ResumeText)
		if err != nil {
			return nil, err
		}
		if a.store != nil {
			if err := storage.SetJSON(ctx, a.store, storage.KeyProfile, prof); err != nil {
				return nil, fmt.Errorf("persisting profile: %w", err)
			}
		}
		return prof, nil

	case TrackInteractionRequest:
		a.tracker.Record(r.Interaction)
		a.persistHistory(ctx)
		return map[string]bool{"tracked": true}, nil

	case GetInsightsRequest:
		return a.tracker.Insights(), nil

	case AutoApplyRequest:
		if r.Job == nil {
			return nil, fmt.Errorf("job is required")
		}
		return a.autoApply(ctx, r.Job)

	default:
		return nil, fmt.Errorf("unsupported request type %T", req)
	}
}

func (a *Agent) autoApply(ctx context.Context, j *job.Job) (*PrefillData, error) {
	if a.prof == nil {
		return nil, matching.ErrProfileNotConfigured
	}

	a.tracker.Record(insights.Interaction{
		Type:     insights.TypeJobApplied,
		JobTitle: j.Title,
		Company:  j.Company,
	})
	a.persistHistory(ctx)

	techPreview := a.prof.TechStack
	if len(techPreview) > 3 {
		techPreview = techPreview[:3]
	}

	return &PrefillData{
		Email:    a.prof.Email,
		Phone:    a.prof.Phone,
		Linkedin: a.prof.LinkedinURL,
		Message: fmt.Sprintf("Enthusiastic %s professional with expertise in %s",
			a.prof.SeniorityLevel, strings.Join(techPreview, ", ")),
	}, nil
}

// MatchAll scores every job in the collection and attaches the results.
func (a *Agent) MatchAll(ctx context.Context, jobs *job.Jobs) {
	for _, j := range jobs.Items {
		result := a.matcher.CalculateMatch(ctx, j)
		j.Match = &job.MatchInfo{
			Score:    result.Score,
			Reason:   result.Reason,
			Source:   result.Source,
			Fallback: result.Source == scoring.SourceHeuristic,
		}
	}
	a.persistHistory(ctx)
}

// RestoreHistory loads the persisted interaction history, if any.
func (a *Agent) RestoreHistory(ctx context.Context) error {
	if a.store == nil {
		return nil
	}

	var snap insights.Snapshot
	found, err := storage.GetJSON(ctx, a.store, storage.KeyHistory, &snap)
	if err != nil {
		return fmt.Errorf("loading interaction history: %w", err)
	}
	if found {
		a.tracker.Restore(snap)
	}
	return nil
}

func (a *Agent) persistHistory(ctx context.Context) {
	if a.store == nil {
		return
	}

	if err := storage.SetJSON(ctx, a.store, storage.KeyHistory, a.tracker.Snapshot()); err != nil {
		a.logger.Warn("persisting interaction history failed", zap.Error(err))
	}
}

func (a *Agent) persistQueries(ctx context.Context, result *ai.QueryResult) {
	if a.store == nil || result.Fallback {
		return
	}

	if err := storage.SetJSON(ctx, a.store, storage.KeyLastQueries, result.Queries); err != nil {
		a.logger.Warn("persisting generated queries failed", zap.Error(err))
		return
	}
	if err := storage.SetJSON(ctx, a.store, storage.KeyLastQueryTime, time.Now().UnixMilli()); err != nil {
		a.logger.Warn("persisting query generation time failed", zap.Error(err))
	}
}
