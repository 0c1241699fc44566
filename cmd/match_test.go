package cmd

import (
	"testing"

	"github.com/spigell/jobhunter/internal/job"
)

func TestJobSelectItemsResolveByIndex(t *testing.T) {
	t.Parallel()

	jobs := &job.Jobs{Items: []*job.Job{
		{Title: "AI Engineer", Company: "Acme", Match: &job.MatchInfo{Score: 80}},
		{Title: "AI Engineer", Company: "Flow", Match: &job.MatchInfo{Score: 55}},
		{Title: "Backend / Platform Engineer", Company: "BadCorp"},
	}}

	items := jobSelectItems(jobs)

	if len(items) != jobs.Len()+1 {
		t.Fatalf("expected %d items, got %d", jobs.Len()+1, len(items))
	}
	if items[len(items)-1] != PromptBack {
		t.Fatalf("expected the back entry last, got %q", items[len(items)-1])
	}

	// Duplicate titles and separators inside a title must not matter:
	// item i always describes jobs.Items[i].
	expected := []string{
		"AI Engineer / Acme / score 80",
		"AI Engineer / Flow / score 55",
		"Backend / Platform Engineer / BadCorp",
	}
	for i, want := range expected {
		if items[i] != want {
			t.Fatalf("expected item %d to be %q, got %q", i, want, items[i])
		}
	}
}
