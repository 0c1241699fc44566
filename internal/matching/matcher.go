// Package matching orchestrates the two scoring paths: the AI-assisted
// scorer is preferred, the deterministic engine is the fallback. No
// failure escapes a match calculation.
package matching

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/spigell/jobhunter/internal/ai"
	"github.com/spigell/jobhunter/internal/insights"
	"github.com/spigell/jobhunter/internal/job"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/scoring"
	"github.com/spigell/jobhunter/internal/utils"

	"go.uber.org/zap"
)

// queryWait is the single grace period the query-generation path waits
// when the call budget is exhausted. Match calculation never waits.
const queryWait = 2 * time.Second

// Provider is the AI collaborator surface the matcher needs.
type Provider interface {
	ScoreJob(ctx context.Context, prof *profile.Profile, j *job.Job) (*ai.MatchAssessment, error)
	ScoreBatch(ctx context.Context, prof *profile.Profile, jobs []*job.Job) ([]ai.BatchAssessment, error)
	GenerateQueries(ctx context.Context, prof *profile.Profile) ([]string, error)
	CoverLetter(ctx context.Context, prof *profile.Profile, j *job.Job) (string, error)
}

// Limiter is the sliding-window call budget.
type Limiter interface {
	CanMakeCall() bool
	RecordCall()
}

// Recorder receives interaction events as scoring side effects.
type Recorder interface {
	Record(insights.Interaction)
}

// Matcher routes between the AI path and the deterministic engine.
// A nil provider means no usable credential; that is a routing decision,
// not an error.
type Matcher struct {
	provider Provider
	engine   *scoring.Engine
	limiter  Limiter
	tracker  Recorder
	prof     *profile.Profile
	prefs    *profile.Preferences
	logger   *zap.Logger
}

func New(provider Provider, prof *profile.Profile, prefs *profile.Preferences, limiter Limiter, tracker Recorder, log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}

	return &Matcher{
		provider: provider,
		engine:   scoring.NewEngine(prof, prefs),
		limiter:  limiter,
		tracker:  tracker,
		prof:     prof,
		prefs:    prefs,
		logger:   log,
	}
}

// CalculateMatch scores one job. The AI path requires a profile and a
// provider; rate-limit exhaustion or any provider failure defers to the
// deterministic engine immediately, without waiting.
func (m *Matcher) CalculateMatch(ctx context.Context, j *job.Job) *scoring.MatchResult {
	if m.prof == nil || m.provider == nil {
		m.logger.Debug("routing to heuristic scorer",
			zap.Bool("profile_configured", m.prof != nil),
			zap.Bool("provider_configured", m.provider != nil),
		)
		return m.engine.Score(j)
	}

	if m.limiter != nil && !m.limiter.CanMakeCall() {
		m.logger.Debug("rate limit reached, routing to heuristic scorer",
			zap.String("job_title", j.Title),
		)
		return m.engine.Score(j)
	}

	if m.limiter != nil {
		m.limiter.RecordCall()
	}

	assessment, err := m.provider.ScoreJob(ctx, m.prof, j)
	if err != nil {
		m.logger.Warn("ai scoring failed, falling back to heuristic scorer",
			zap.String("job_title", j.Title),
			zap.Error(err),
		)
		return m.engine.Score(j)
	}

	result := &scoring.MatchResult{
		Score:     assessment.Score,
		Reason:    assessment.Reason,
		Breakdown: calibrateBreakdown(m.engine.Score(j).Breakdown, assessment.Score),
		Source:    scoring.SourceAI,
	}

	if m.tracker != nil {
		m.tracker.Record(insights.Interaction{
			Type:     insights.TypeJobScored,
			JobTitle: j.Title,
			Company:  j.Company,
			Score:    result.Score,
		})
	}

	return result
}

// BatchAnalyze scores several jobs with one combined provider request.
// On any failure every job gets the basic keyword score; the fallback
// flag tells the two apart.
func (m *Matcher) BatchAnalyze(ctx context.Context, jobs []*job.Job) ([]ai.BatchAssessment, bool) {
	if m.prof != nil && m.provider != nil {
		if m.limiter == nil || m.limiter.CanMakeCall() || utils.WaitFor(ctx, queryWait) == nil {
			if m.limiter != nil {
				m.limiter.RecordCall()
			}

			results, err := m.provider.ScoreBatch(ctx, m.prof, jobs)
			if err == nil {
				return results, false
			}

			m.logger.Warn("batch analysis failed, falling back to basic scoring", zap.Error(err))
		}
	}

	results := make([]ai.BatchAssessment, 0, len(jobs))
	for i, j := range jobs {
		results = append(results, ai.BatchAssessment{
			Index:  i,
			Score:  scoring.BasicScore(j, m.prof, m.prefs),
			Reason: "Basic keyword matching (AI unavailable)",
		})
	}
	return results, true
}

// GenerateQueries produces profile-driven search queries. Missing
// profile or provider is a configuration error and is surfaced; provider
// failures are recovered with the fixed fallback list, explicitly
// flagged. Unlike match calculation, this path waits once for the call
// budget before giving up.
func (m *Matcher) GenerateQueries(ctx context.Context) (*ai.QueryResult, error) {
	if m.prof == nil {
		return nil, ErrProfileNotConfigured
	}
	if m.provider == nil {
		return nil, ErrCredentialNotConfigured
	}

	if m.limiter != nil && !m.limiter.CanMakeCall() {
		m.logger.Warn("rate limit reached, waiting before query generation")
		if err := utils.WaitFor(ctx, queryWait); err != nil {
			return fallbackQueries(), nil
		}
	}

	if m.limiter != nil {
		m.limiter.RecordCall()
	}

	queries, err := m.provider.GenerateQueries(ctx, m.prof)
	if err != nil {
		m.logger.Warn("query generation failed, using fallback list", zap.Error(err))
		return fallbackQueries(), nil
	}

	queries = m.filterBlacklisted(queries)

	return &ai.QueryResult{Queries: queries, Count: len(queries)}, nil
}

// CoverLetter generates an application letter through the provider and
// tracks the generation.
func (m *Matcher) CoverLetter(ctx context.Context, j *job.Job) (string, error) {
	if m.prof == nil {
		return "", ErrProfileNotConfigured
	}
	if m.provider == nil {
		return "", ErrCredentialNotConfigured
	}

	if m.limiter != nil {
		m.limiter.RecordCall()
	}

	letter, err := m.provider.CoverLetter(ctx, m.prof, j)
	if err != nil {
		return "", err
	}

	if m.tracker != nil {
		m.tracker.Record(insights.Interaction{
			Type:     insights.TypeCoverLetterGenerated,
			JobTitle: j.Title,
			Company:  j.Company,
		})
	}

	return letter, nil
}

func (m *Matcher) filterBlacklisted(queries []string) []string {
	if m.prefs == nil || len(m.prefs.BlacklistKeywords) == 0 {
		return queries
	}

	kept := queries[:0]
	for _, query := range queries {
		lower := strings.ToLower(query)
		blacklisted := false
		for _, keyword := range m.prefs.BlacklistKeywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				blacklisted = true
				break
			}
		}
		if !blacklisted {
			kept = append(kept, query)
		}
	}
	return kept
}

// calibrateBreakdown redistributes the deterministic phase breakdown so
// its components sum exactly to the AI score, keeping both paths in the
// same result shape. Positive components scale proportionally; rounding
// drift lands on the largest one.
func calibrateBreakdown(det scoring.Breakdown, target int) scoring.Breakdown {
	positives := [4]int{det.Title, det.Location, det.Keywords, det.Seniority}
	total := 0
	for _, v := range positives {
		if v > 0 {
			total += v
		}
	}

	if total <= 0 {
		return scoring.Breakdown{Title: target}
	}

	var scaled [4]int
	sum := 0
	largest := 0
	for i, v := range positives {
		if v < 0 {
			v = 0
		}
		scaled[i] = int(math.Round(float64(v) * float64(target) / float64(total)))
		sum += scaled[i]
		if scaled[i] > scaled[largest] {
			largest = i
		}
	}

	scaled[largest] += target - sum

	return scoring.Breakdown{
		Title:     scaled[0],
		Location:  scaled[1],
		Keywords:  scaled[2],
		Seniority: scaled[3],
	}
}

func fallbackQueries() *ai.QueryResult {
	queries := append([]string(nil), fallbackQueryList...)
	return &ai.QueryResult{
		Queries:  queries,
		Count:    len(queries),
		Fallback: true,
		Message:  "auto-suggested fallback searches",
	}
}
