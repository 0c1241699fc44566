package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/jobhunter/internal/ai"

	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 2

	// Quota errors advertising a longer delay than this are not worth
	// waiting out; the caller's fallback path is cheaper.
	maxQuotaDelay = 30 * time.Second

	retryBackoff = 2 * time.Second
)

var sleep = time.Sleep

var retryDelayPattern = regexp.MustCompile(`retry.*?(\d+(?:\.\d+)?)\s*s`)

// contentGenerator is the seam between the Generator and the genai SDK.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client behind the prompt-in, text-out
// contract. It implements ai.Generator.
type Generator struct {
	models     contentGenerator
	modelName  string
	maxRetries int
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Generator{models: client.Models, modelName: model, maxRetries: maxRetries}, nil
}

// Generate sends the prompt to Gemini and returns the joined textual
// response. Temporary provider failures are retried; everything that
// still fails surfaces as ai.RequestError.
func (g *Generator) Generate(ctx context.Context, prompt string, maxOutputTokens int32) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var config *genai.GenerateContentConfig
	if maxOutputTokens > 0 {
		config = &genai.GenerateContentConfig{MaxOutputTokens: maxOutputTokens}
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
		if err == nil {
			return joinResponseText(resp)
		}

		lastErr = err
		delay, retryable := classifyError(err)
		if !retryable || attempt == g.maxRetries {
			break
		}
		sleep(delay)
	}

	return "", asRequestError(lastErr)
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

func joinResponseText(resp *genai.GenerateContentResponse) (string, error) {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", &ai.RequestError{Message: "gemini api returned empty response"}
	}
	return output, nil
}

// classifyError reports whether the error is worth retrying and after
// how long. Server-side errors back off a fixed interval; quota errors
// honor the advertised delay unless it exceeds maxQuotaDelay.
func classifyError(err error) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	if apiErr.Code >= 500 {
		return retryBackoff, true
	}

	if apiErr.Code == 429 {
		delay := parseRetryDelay(apiErr.Message)
		if delay == 0 {
			delay = retryBackoff
		}
		if delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	}

	return 0, false
}

func parseRetryDelay(message string) time.Duration {
	match := retryDelayPattern.FindStringSubmatch(strings.ToLower(message))
	if len(match) != 2 {
		return 0
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func asRequestError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.RequestError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	return &ai.RequestError{Message: err.Error()}
}
