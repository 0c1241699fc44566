package agent

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Wire command names accepted by DecodeRequest.
const (
	CmdCalculateMatch      = "calculateMatch"
	CmdBatchAnalyze        = "batchAnalyzeJobs"
	CmdFilterJob           = "filterJob"
	CmdGenerateQueries     = "generateSearchQueries"
	CmdGenerateCoverLetter = "generateCoverLetter"
	CmdAnalyzeResume       = "analyzeResume"
	CmdTrackInteraction    = "trackInteraction"
	CmdGetInsights         = "getInsights"
	CmdAutoApply           = "autoApply"
)

// DecodeRequest converts a loosely-typed command payload, as received
// from an external collaborator, into its typed request. Unknown
// commands are an error; unknown payload fields are ignored.
func DecodeRequest(command string, payload map[string]any) (Request, error) {
	switch command {
	case CmdCalculateMatch:
		var req CalculateMatchRequest
		return req, decodePayload(payload, &req)
	case CmdBatchAnalyze:
		var req BatchAnalyzeRequest
		return req, decodePayload(payload, &req)
	case CmdFilterJob:
		var req FilterJobRequest
		return req, decodePayload(payload, &req)
	case CmdGenerateQueries:
		return GenerateQueriesRequest{}, nil
	case CmdGenerateCoverLetter:
		var req GenerateCoverLetterRequest
		return req, decodePayload(payload, &req)
	case CmdAnalyzeResume:
		var req AnalyzeResumeRequest
		return req, decodePayload(payload, &req)
	case CmdTrackInteraction:
		var req TrackInteractionRequest
		return req, decodePayload(payload, &req)
	case CmdGetInsights:
		return GetInsightsRequest{}, nil
	case CmdAutoApply:
		var req AutoApplyRequest
		return req, decodePayload(payload, &req)
	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}

func decodePayload(payload map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("decode %T payload: %w", target, err)
	}
	return nil
}
