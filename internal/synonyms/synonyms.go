// Package synonyms holds the static keyword expansion table used by the
// title and keyword scoring phases.
package synonyms

import (
	"sort"
	"strings"
)

// table maps a canonical term to related terms that should also count
// as a match. Expansion is one-directional and one-level: synonyms of
// synonyms are never chased.
var table = map[string][]string{
	"prompt engineer": {"llm", "ai", "gpt", "automation", "agentic", "orchestration"},
	"ai agent":        {"agentic", "llm", "orchestration", "automation"},
	"automation":      {"workflow", "n8n", "make", "zapier", "python", "docker"},
	"ai engineer":     {"ml", "machine learning", "llm", "rag", "nlp"},
	"rag":             {"retrieval", "vector", "embedding", "llm"},
	"mlops":           {"ml", "devops", "kubernetes", "docker"},
	"n8n":             {"automation", "workflow", "integration"},
	"llm":             {"ai", "gpt", "claude", "prompt", "agentic"},
	"product manager": {"product", "pm", "roadmap", "strategy", "stakeholder"},
	"operations":      {"ops", "process", "workflow", "optimization"},
	"project manager": {"project", "pmo", "timeline", "delivery"},
}

// DefaultTargetTitles is the static target-title table used by the title
// phase when no profile is configured.
var DefaultTargetTitles = []string{
	"ai engineer",
	"rag engineer",
	"ml engineer",
	"mlops engineer",
	"automation engineer",
}

// FallbackQueries is returned by the query generator when the AI call
// fails or the budget is exhausted.
var FallbackQueries = []string{
	"AI Engineer Israel",
	"RAG Engineer Israel",
	"Senior ML Engineer Israel",
	"AI Infrastructure Israel",
	"MLOps Engineer Remote",
	"n8n Automation Israel",
	"Agentic AI Israel",
	"LLM Engineer Israel",
}

// Expand returns the lowercased input keywords plus one level of related
// terms. A keyword picks up the synonyms of every canonical term it
// overlaps with by substring in either direction. The result is sorted
// so scoring stays deterministic.
func Expand(keywords []string) []string {
	expanded := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		expanded[keyword] = struct{}{}

		for canonical, related := range table {
			if strings.Contains(keyword, canonical) || strings.Contains(canonical, keyword) {
				for _, term := range related {
					expanded[term] = struct{}{}
				}
			}
		}
	}

	result := make([]string, 0, len(expanded))
	for term := range expanded {
		result = append(result, term)
	}
	sort.Strings(result)

	return result
}
