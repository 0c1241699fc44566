package cmd

import (
	"context"
	"encoding/json"
	"log"

	"github.com/spigell/jobhunter/internal/agent"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show interaction analytics from the tracked history",
	Run: func(_ *cobra.Command, _ []string) {
		showInsights()
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func showInsights() {
	ctx := context.Background()

	rt, err := newRuntime(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %s", err)
	}
	logger := rt.logger

	resp := rt.agent.Dispatch(ctx, agent.GetInsightsRequest{})
	if !resp.Success {
		logger.Fatal("collecting insights", zap.String("reason", resp.Message))
	}

	pretty, _ := json.MarshalIndent(resp.Data, "", "  ")
	logger.Info(string(pretty))
}
