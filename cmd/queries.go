package cmd

import (
	"context"
	"encoding/json"
	"log"

	"github.com/spigell/jobhunter/internal/agent"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Generate personalized job search queries",
	Run: func(_ *cobra.Command, _ []string) {
		queries()
	},
}

func init() {
	rootCmd.AddCommand(queriesCmd)
}

func queries() {
	ctx := context.Background()

	rt, err := newRuntime(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %s", err)
	}
	logger := rt.logger

	resp := rt.agent.Dispatch(ctx, agent.GenerateQueriesRequest{})
	if !resp.Success {
		logger.Fatal("generating queries", zap.String("reason", resp.Message))
	}

	pretty, _ := json.MarshalIndent(resp.Data, "", "  ")
	logger.Info(string(pretty))
}
