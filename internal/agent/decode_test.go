package agent

import (
	"testing"

	"github.com/spigell/jobhunter/internal/insights"
)

func TestDecodeRequest(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"job": map[string]any{
			"title":    "AI Engineer",
			"company":  "Acme",
			"location": "Tel Aviv",
		},
	}

	req, err := DecodeRequest(CmdCalculateMatch, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	match, ok := req.(CalculateMatchRequest)
	if !ok {
		t.Fatalf("unexpected request type %T", req)
	}
	if match.Job == nil || match.Job.Title != "AI Engineer" || match.Job.Company != "Acme" {
		t.Fatalf("unexpected decoded job: %+v", match.Job)
	}
}

func TestDecodeRequestTrackInteraction(t *testing.T) {
	t.Parallel()

	req, err := DecodeRequest(CmdTrackInteraction, map[string]any{
		"interaction": map[string]any{
			"type":    insights.TypeJobClicked,
			"company": "Acme",
			"score":   "42",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	track, ok := req.(TrackInteractionRequest)
	if !ok {
		t.Fatalf("unexpected request type %T", req)
	}
	if track.Interaction.Type != insights.TypeJobClicked || track.Interaction.Score != 42 {
		t.Fatalf("unexpected decoded interaction: %+v", track.Interaction)
	}
}

func TestDecodeRequestWithoutPayload(t *testing.T) {
	t.Parallel()

	for _, command := range []string{CmdGenerateQueries, CmdGetInsights} {
		if _, err := DecodeRequest(command, nil); err != nil {
			t.Fatalf("unexpected error for %s: %v", command, err)
		}
	}
}

func TestDecodeRequestUnknownCommand(t *testing.T) {
	t.Parallel()

	if _, err := DecodeRequest("selfDestruct", nil); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}
