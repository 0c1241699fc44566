package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/spigell/jobhunter/internal/agent"
	"github.com/spigell/jobhunter/internal/filtering"
	"github.com/spigell/jobhunter/internal/job"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes             = "Yes"
	PromptNo              = "No"
	PromptBack            = "back"
	PromptReportByCompany = "Report by companies"
	PromptManualApply     = "Prepare applications in manual mode"
	PromptJobsToFile      = "Dump jobs to file"
	PromptCoverLetter     = "Generate a cover letter"
	PromptApply           = "Prepare application prefill"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportByCompany, PromptManualApply, PromptJobsToFile},
}

var matchCmd = &cobra.Command{
	Use:   "match <jobs-file>",
	Short: "Score scraped job postings against your profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation if found suitable jobs")
	matchCmd.Flags().IntP("min-score", "m", 0, "drop jobs scored below this threshold")
	matchCmd.Flags().StringSliceP("require", "r", nil, "keep only jobs whose title contains one of these keywords")
}

// match is the main command for the cli.
func match(cmd *cobra.Command, jobsFile string) {
	ctx := context.Background()

	rt, err := newRuntime(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %s", err)
	}
	logger := rt.logger

	logger.Info("starting the jobhunter", zap.String("version", version))

	jobs, err := job.LoadFromFile(jobsFile)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	logger.Info("loaded jobs", zap.Int("count", jobs.Len()))

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	deps := filtering.Deps{Logger: logger, Prof: rt.prof, Prefs: rt.prefs}

	require, _ := cmd.Flags().GetStringSlice("require")

	jobs, err = filtering.Run(deps, []filtering.Filter{
		filtering.NewBlacklist(),
		filtering.NewHiddenCompanies(),
		filtering.NewTitleKeywords(require),
	}, jobs)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	rt.agent.MatchAll(ctx, jobs)

	minScore, _ := cmd.Flags().GetInt("min-score")
	if minScore > 0 {
		jobs, err = filtering.Run(deps, []filtering.Filter{filtering.NewMinScore(minScore)}, jobs)
		if err != nil {
			logger.Fatal("filtering failed", zap.Error(err))
		}
	}

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	action := PromptReportByCompany
	auto, _ := cmd.Flags().GetBool("auto-approve")
	for {
		var err error
		if !auto {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of jobs", zap.Int("count", jobs.Len()))

		if err := handleAction(ctx, action, rt.agent, logger, jobs); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if auto {
			return
		}
	}
}

func handleAction(ctx context.Context, action string, ag *agent.Agent, logger *zap.Logger, jobs *job.Jobs) error {
	switch action {
	case PromptYes:
		return prepareAll(ctx, ag, logger, jobs)
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptManualApply:
		return manualApply(ctx, ag, logger, jobs)
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(jobs.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", jobs.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := jobs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func prepareAll(ctx context.Context, ag *agent.Agent, logger *zap.Logger, jobs *job.Jobs) error {
	for _, j := range jobs.Items {
		if err := preparePrefill(ctx, ag, logger, j); err != nil {
			return err
		}
	}

	logger.Info("prepared applications", zap.Int("count", jobs.Len()))
	return errExit
}

// jobSelectItems renders one prompt label per job, in item order, with
// the back entry appended last. Labels are display-only; the selection
// is resolved by index because titles are not unique across postings.
func jobSelectItems(jobs *job.Jobs) []string {
	items := make([]string, 0, jobs.Len()+1)
	for _, j := range jobs.Items {
		label := fmt.Sprintf("%s / %s", j.Title, j.Company)
		if j.Match != nil {
			label = fmt.Sprintf("%s / score %d", label, j.Match.Score)
		}
		items = append(items, label)
	}
	return append(items, PromptBack)
}

func manualApply(ctx context.Context, ag *agent.Agent, logger *zap.Logger, jobs *job.Jobs) error {
	for {
		jobPrompt := promptui.Select{
			Label: "Choose a job and press ENTER",
			Items: jobSelectItems(jobs),
		}

		idx, _, err := jobPrompt.Run()
		if err != nil {
			return err
		}

		if idx >= jobs.Len() {
			return nil
		}
		j := jobs.Items[idx]

		actionPrompt := promptui.Select{
			Label: "What to do with it?",
			Items: []string{PromptCoverLetter, PromptApply, PromptBack},
		}

		_, jobAction, err := actionPrompt.Run()
		if err != nil {
			return err
		}

		switch jobAction {
		case PromptCoverLetter:
			resp := ag.Dispatch(ctx, agent.GenerateCoverLetterRequest{Job: j})
			if !resp.Success {
				logger.Warn("cover letter failed", zap.String("reason", resp.Message))
				continue
			}
			logger.Info("cover letter ready",
				zap.String("job", j.Title),
				zap.Any("letter", resp.Data),
			)
		case PromptApply:
			if err := preparePrefill(ctx, ag, logger, j); err != nil {
				return err
			}
			jobs.RemoveByIndex(idx)
		}
	}
}

func preparePrefill(ctx context.Context, ag *agent.Agent, logger *zap.Logger, j *job.Job) error {
	resp := ag.Dispatch(ctx, agent.AutoApplyRequest{Job: j})
	if !resp.Success {
		return fmt.Errorf("preparing application for %q: %s", j.Title, resp.Message)
	}

	logger.Info("application prefill ready",
		zap.String("job", j.Title),
		zap.String("company", j.Company),
		zap.Any("prefill", resp.Data),
	)
	return nil
}
