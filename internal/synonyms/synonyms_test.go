package synonyms

import (
	"sort"
	"testing"
)

func TestExpandAddsRelatedTerms(t *testing.T) {
	t.Parallel()

	expanded := Expand([]string{"RAG"})

	want := []string{"embedding", "llm", "rag", "retrieval", "vector"}
	if len(expanded) != len(want) {
		t.Fatalf("expected %d terms, got %d: %v", len(want), len(expanded), expanded)
	}
	for i, term := range want {
		if expanded[i] != term {
			t.Fatalf("expected %q at position %d, got %q", term, i, expanded[i])
		}
	}
}

func TestExpandIsOneLevelOnly(t *testing.T) {
	t.Parallel()

	// "mlops" expands to docker among others; docker's own neighbors
	// (workflow via automation etc.) must not be chased.
	expanded := Expand([]string{"mlops"})

	for _, term := range expanded {
		if term == "n8n" || term == "zapier" {
			t.Fatalf("expansion chased synonyms of synonyms: %v", expanded)
		}
	}
}

func TestExpandIsSortedAndDeduplicated(t *testing.T) {
	t.Parallel()

	expanded := Expand([]string{"llm", "LLM", " llm "})

	if !sort.StringsAreSorted(expanded) {
		t.Fatalf("expected sorted output, got %v", expanded)
	}

	seen := make(map[string]struct{})
	for _, term := range expanded {
		if _, ok := seen[term]; ok {
			t.Fatalf("duplicate term %q in %v", term, expanded)
		}
		seen[term] = struct{}{}
	}
}

func TestExpandKeepsUnknownKeywords(t *testing.T) {
	t.Parallel()

	expanded := Expand([]string{"cobol"})

	if len(expanded) != 1 || expanded[0] != "cobol" {
		t.Fatalf("expected unknown keyword kept as-is, got %v", expanded)
	}
}
