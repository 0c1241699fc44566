package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/jobhunter/internal/agent"
	"github.com/spigell/jobhunter/internal/ai/gemini"
	"github.com/spigell/jobhunter/internal/insights"
	"github.com/spigell/jobhunter/internal/logger"
	"github.com/spigell/jobhunter/internal/matching"
	"github.com/spigell/jobhunter/internal/profile"
	"github.com/spigell/jobhunter/internal/ratelimit"
	"github.com/spigell/jobhunter/internal/secrets"
	"github.com/spigell/jobhunter/internal/storage"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultStateFile = "jobhunter-state.json"

// runtime bundles everything a command needs after bootstrap.
type runtime struct {
	agent  *agent.Agent
	config *Config
	logger *zap.Logger
	prof   *profile.Profile
	prefs  *profile.Preferences
}

// newRuntime wires the agent from configuration and persisted state.
// A missing AI credential degrades to heuristic-only scoring instead of
// failing here; analyze is the only command that requires the provider.
func newRuntime(ctx context.Context) (*runtime, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := newStore(ctx, config)
	if err != nil {
		return nil, err
	}

	prof, err := loadProfile(ctx, store, config)
	if err != nil {
		return nil, err
	}

	prefs, err := loadPreferences(ctx, store, config)
	if err != nil {
		return nil, err
	}

	var (
		provider matching.Provider
		analyzer *profile.Analyzer
		limit    int
	)

	if config.AI != nil && config.AI.Enabled {
		generator, aiErr := newGenerator(ctx, config.AI, log)
		if aiErr != nil {
			log.Warn("ai provider unavailable, falling back to heuristic scoring", zap.Error(aiErr))
		} else {
			model := ""
			if config.AI.Gemini != nil {
				model = config.AI.Gemini.Model
			}
			aiLogger := logger.WithCommonFields(log, config.AI.Provider, model)

			maxLogLen := 0
			if config.AI.Gemini != nil {
				maxLogLen = config.AI.Gemini.MaxLogLength
			}

			provider = gemini.NewScorer(generator, aiLogger, maxLogLen)
			analyzer = profile.NewAnalyzer(generator, aiLogger)
		}
		limit = config.AI.RateLimit
	}

	tracker := insights.NewTracker()
	matcher := matching.New(provider, prof, prefs, ratelimit.New(limit), tracker, log)

	ag := agent.New(matcher, analyzer, tracker, store, prof, prefs, log)
	if err := ag.RestoreHistory(ctx); err != nil {
		log.Warn("restoring interaction history", zap.Error(err))
	}

	return &runtime{
		agent:  ag,
		config: config,
		logger: log,
		prof:   prof,
		prefs:  prefs,
	}, nil
}

func newStore(ctx context.Context, config *Config) (storage.Store, error) {
	backend := "file"
	if config.Storage != nil && config.Storage.Backend != "" {
		backend = strings.ToLower(config.Storage.Backend)
	}

	switch backend {
	case "file":
		path := defaultStateFile
		if config.Storage != nil && config.Storage.File != nil && config.Storage.File.Path != "" {
			path = config.Storage.File.Path
		}
		return storage.NewFileStore(path)
	case "redis":
		if config.Storage == nil || config.Storage.Redis == nil || config.Storage.Redis.URL == "" {
			return nil, fmt.Errorf("storage.redis.url is required for the redis backend")
		}
		return storage.NewRedisStore(ctx, config.Storage.Redis.URL, app)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}

// loadProfile prefers the persisted profile over the configured file.
// Both missing is fine, scoring then runs without profile signals.
func loadProfile(ctx context.Context, store storage.Store, config *Config) (*profile.Profile, error) {
	var prof profile.Profile
	found, err := storage.GetJSON(ctx, store, storage.KeyProfile, &prof)
	if err != nil {
		return nil, fmt.Errorf("loading stored profile: %w", err)
	}
	if found {
		prof.Normalize()
		return &prof, nil
	}

	if config.ProfileFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(config.ProfileFile)
	if err != nil {
		return nil, fmt.Errorf("reading profile file %q: %w", config.ProfileFile, err)
	}
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("parsing profile file %q: %w", config.ProfileFile, err)
	}

	prof.Normalize()
	return &prof, nil
}

func loadPreferences(ctx context.Context, store storage.Store, config *Config) (*profile.Preferences, error) {
	var prefs profile.Preferences
	found, err := storage.GetJSON(ctx, store, storage.KeyPreferences, &prefs)
	if err != nil {
		return nil, fmt.Errorf("loading stored preferences: %w", err)
	}
	if found {
		return &prefs, nil
	}

	if config.Preferences != nil {
		return config.Preferences, nil
	}

	return profile.DefaultPreferences(), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	keyFile := ""
	if cfg.Gemini != nil {
		keyFile = cfg.Gemini.APIKeyFile
	}
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	model := ""
	maxRetries := 0
	if cfg.Gemini != nil {
		model = cfg.Gemini.Model
		maxRetries = cfg.Gemini.MaxRetries
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, model, maxRetries)
	if err != nil {
		return nil, err
	}

	log.Debug("ai provider initialized", zap.String("model", generator.Model()))

	return generator, nil
}
