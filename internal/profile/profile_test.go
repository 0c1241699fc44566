package profile

import (
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	techStack := make([]string, 0, MaxTechStack+5)
	for i := 0; i < MaxTechStack+5; i++ {
		techStack = append(techStack, fmt.Sprintf("tool-%d", i))
	}

	p := &Profile{
		TechStack:       append([]string{"  python ", "", "skills: many"}, techStack...),
		DynamicKeywords: []string{"  RAG ", "LLM"},
		TargetJobTitles: []string{" AI Engineer ", "", "RAG Engineer", "ML Engineer", "MLOps Engineer", "Automation Engineer", "One Too Many"},
		SeniorityLevel:  " Senior ",
	}

	p.Normalize()

	if len(p.TechStack) != MaxTechStack {
		t.Fatalf("expected tech stack capped at %d, got %d", MaxTechStack, len(p.TechStack))
	}
	for _, tech := range p.TechStack {
		if tech == "skills: many" {
			t.Fatal("expected phrase-like entries dropped")
		}
	}

	if len(p.TargetJobTitles) != TargetTitleCount {
		t.Fatalf("expected %d target titles, got %d", TargetTitleCount, len(p.TargetJobTitles))
	}
	if p.TargetJobTitles[0] != "AI Engineer" {
		t.Fatalf("expected trimmed first title, got %q", p.TargetJobTitles[0])
	}

	if p.DynamicKeywords[0] != "rag" || p.DynamicKeywords[1] != "llm" {
		t.Fatalf("expected lowercased keywords, got %v", p.DynamicKeywords)
	}
	if p.SeniorityLevel != "Senior" {
		t.Fatalf("expected trimmed seniority, got %q", p.SeniorityLevel)
	}
}

func TestPrimaryKeywords(t *testing.T) {
	t.Parallel()

	var nilProfile *Profile
	if got := nilProfile.PrimaryKeywords(); got != nil {
		t.Fatalf("expected nil for a nil profile, got %v", got)
	}

	withDynamic := &Profile{
		DynamicKeywords: []string{"RAG", "llm"},
		TechStack:       []string{"python"},
		Skills:          []string{"docker"},
	}
	got := withDynamic.PrimaryKeywords()
	if len(got) != 2 || got[0] != "rag" {
		t.Fatalf("expected dynamic keywords preferred, got %v", got)
	}

	withoutDynamic := &Profile{
		TechStack: []string{"Python", "LangChain"},
		Skills:    []string{"Prompting"},
	}
	got = withoutDynamic.PrimaryKeywords()
	if len(got) != 3 || got[0] != "python" || got[2] != "prompting" {
		t.Fatalf("expected lowercased tech stack plus skills, got %v", got)
	}

	many := &Profile{}
	for i := 0; i < 30; i++ {
		many.Skills = append(many.Skills, fmt.Sprintf("skill-%d", i))
	}
	if got := many.PrimaryKeywords(); len(got) != 20 {
		t.Fatalf("expected the combined list capped at 20, got %d", len(got))
	}
}

func TestPastTitles(t *testing.T) {
	t.Parallel()

	p := &Profile{Experience: []Experience{
		{Title: "Backend Developer", Company: "Acme"},
		{Title: "  ", Company: "NoTitle Inc"},
		{Title: "Platform Engineer"},
	}}

	titles := p.PastTitles()
	if len(titles) != 2 || titles[0] != "Backend Developer" || titles[1] != "Platform Engineer" {
		t.Fatalf("unexpected titles: %v", titles)
	}
}

func TestPreferences(t *testing.T) {
	t.Parallel()

	var nilPrefs *Preferences
	if nilPrefs.BlacklistActive() {
		t.Fatal("expected nil preferences to deactivate the blacklist")
	}
	if len(nilPrefs.EffectiveLocations()) == 0 {
		t.Fatal("expected default locations for nil preferences")
	}
	if len(nilPrefs.EffectiveLevels()) == 0 {
		t.Fatal("expected default levels for nil preferences")
	}

	prefs := &Preferences{AutoFilter: true}
	if prefs.BlacklistActive() {
		t.Fatal("expected an empty blacklist to stay inactive")
	}

	prefs.BlacklistKeywords = []string{"sap"}
	if !prefs.BlacklistActive() {
		t.Fatal("expected the blacklist active")
	}

	custom := &Preferences{ExperienceLevels: []string{" Director "}}
	levels := custom.EffectiveLevels()
	if len(levels) != 1 || levels[0] != "director" {
		t.Fatalf("expected lowercased trimmed levels, got %v", levels)
	}
}
