package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/spigell/jobhunter/internal/agent"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Extract a matching profile from a resume text file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		analyze(args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(resumeFile string) {
	ctx := context.Background()

	rt, err := newRuntime(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %s", err)
	}
	logger := rt.logger

	data, err := os.ReadFile(resumeFile)
	if err != nil {
		logger.Fatal("reading resume file", zap.Error(err))
	}

	resp := rt.agent.Dispatch(ctx, agent.AnalyzeResumeRequest{ResumeText: string(data)})
	if !resp.Success {
		logger.Fatal("analyzing resume", zap.String("reason", resp.Message))
	}

	pretty, _ := json.MarshalIndent(resp.Data, "", "  ")
	logger.Info("profile extracted and saved")
	logger.Info(string(pretty))
}
