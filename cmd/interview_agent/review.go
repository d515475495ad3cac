package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/review"
)

var (
	reviewRepo          string
	reviewType          string
	reviewCritique      string
	reviewJobRole       string
	reviewCrossValidate bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a GitHub repository",
	Long: `Fetch a public GitHub repository and review it with the configured LLM provider.

Without --critique a rubric analysis of --type is run. With --critique the prompt is answered, grounded in the repository when --repo is given.`,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewRepo, "repo", "r", "", "GitHub repository URL")
	reviewCmd.Flags().StringVarP(&reviewType, "type", "t", string(prompts.AnalysisCodeQuality), "Analysis type: security, codeQuality, architecture or performance")
	reviewCmd.Flags().StringVar(&reviewCritique, "critique", "", "Free-form critique prompt")
	reviewCmd.Flags().StringVar(&reviewJobRole, "job-role", "", "Target role for a critique")
	reviewCmd.Flags().BoolVar(&reviewCrossValidate, "cross-validate", false, "Ask the cross-validation provider to check the review")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if reviewCritique == "" && reviewRepo == "" {
		return fmt.Errorf("either --repo or --critique must be provided")
	}
	analysisType := prompts.AnalysisType(reviewType)
	if reviewCritique == "" && !analysisType.Valid() {
		return fmt.Errorf("unknown analysis type %q", reviewType)
	}

	cfg, err := resolveConfig(config.Load(), configPath, verbose)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Close() }()

	reviewer, cleanup, err := buildReviewer(ctx, cfg, registry)
	if err != nil {
		return err
	}
	defer cleanup()

	var report *review.Report
	if reviewCritique != "" {
		report, err = reviewer.Critique(ctx, review.CritiqueRequest{
			Prompt:        reviewCritique,
			Settings:      review.Settings{Temperature: 0.3, MaxTokens: 2000},
			JobRole:       reviewJobRole,
			RepoURL:       reviewRepo,
			CrossValidate: reviewCrossValidate,
		})
	} else {
		report, err = reviewer.Analyze(ctx, review.AnalyzeRequest{
			RepoURL:       reviewRepo,
			Type:          analysisType,
			CrossValidate: reviewCrossValidate,
		})
	}
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintReview(reportSummary(report), report.Text)
	return nil
}

func reportSummary(r *review.Report) observability.ReviewSummary {
	s := observability.ReviewSummary{
		Repo:          r.Repo,
		Provider:      string(r.Provider),
		Model:         r.Model,
		Score:         r.Score,
		FilesAnalyzed: r.FilesAnalyzed,
		Usage:         r.Usage,
	}
	if r.Kind == db.ReportKindCritique {
		s.Title = "CRITIQUE"
	}
	if cv := r.CrossValidation; cv != nil {
		s.ValidatorProvider = string(cv.Provider)
		s.ValidatorScore = cv.Score
	}
	return s
}
