// Package ai defines the provider-neutral contracts for the text
// generation collaborator and the shared response handling helpers.
package ai

import (
	"context"
	"fmt"
	"strings"
)

// Generator sends a prompt to a text-generation provider and returns the
// textual response. maxOutputTokens bounds the response size.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int32) (string, error)
}

// MatchAssessment is the provider's answer to a single-job scoring
// request.
type MatchAssessment struct {
	Score  int
	Reason string
	Raw    string
}

// BatchAssessment is one entry of a batch scoring response.
type BatchAssessment struct {
	Index  int    `json:"index"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// QueryResult carries generated search queries. Fallback marks results
// substituted from the built-in list so callers can tell them apart from
// real provider output.
type QueryResult struct {
	Queries  []string `json:"queries"`
	Count    int      `json:"count"`
	Fallback bool     `json:"fallback,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// RequestError describes a non-success provider response or transport
// failure.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ai request failed: %d - %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ai request failed: %s", e.Message)
}

// ExtractJSON returns the first balanced JSON object or array substring
// of raw, tolerating markdown code fences around it. When no JSON
// substring is present the raw text is returned as-is; free-text
// responses such as cover letters pass through unchanged.
func ExtractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.IndexAny(cleaned, "{[")
	if start == -1 {
		return strings.TrimSpace(raw)
	}

	open := cleaned[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return cleaned[start : i+1]
			}
		}
	}

	return strings.TrimSpace(raw)
}
