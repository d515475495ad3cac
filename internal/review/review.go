// Package review runs LLM code reviews over GitHub repositories.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/fetch"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// Generation parameters for a rubric analysis.
const (
	AnalysisTemperature = 0.2
	AnalysisMaxTokens   = 2000
)

// Generation parameters for a cross-validation pass.
const (
	ValidationTemperature = 0.2
	ValidationMaxTokens   = 1500
	ValidationTopP        = 0.9
)

// Truncation limits applied to file contents and analyses placed into prompts.
const (
	analysisFileLimit  = 3000
	critiqueFileLimit  = 2000
	validationLimit    = 1200
	validationSuffix   = "...[truncated]"
	critiqueReportType = "project_criteria_with_code"
)

// ErrNoFiles is returned when a repository yields no readable files.
var ErrNoFiles = errors.New("no accessible files found. Repository might be private or not exist")

// GenerationError wraps a provider failure during a review.
type GenerationError struct {
	Provider llm.Provider
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to analyze with %s: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Archive stores finished reports.
type Archive interface {
	SaveReviewReport(ctx context.Context, report *db.ReviewReport) error
}

// Settings selects the provider and sampling parameters for a critique.
type Settings struct {
	Provider    llm.Provider
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// AnalyzeRequest asks for a rubric analysis of a repository.
type AnalyzeRequest struct {
	RepoURL       string
	Type          prompts.AnalysisType
	CrossValidate bool
}

// CritiqueRequest asks for a free-form critique, optionally grounded in a repository.
type CritiqueRequest struct {
	Prompt        string
	Settings      Settings
	JobRole       string
	RepoURL       string
	CrossValidate bool
}

// CrossValidation is a second provider's check of an analysis.
type CrossValidation struct {
	Provider llm.Provider      `json:"provider"`
	Model    string            `json:"model"`
	Text     string            `json:"text"`
	Score    *int              `json:"score,omitempty"`
	Usage    *types.TokenUsage `json:"usage,omitempty"`
	// ScoreDelta is the validator's score minus the original score when both are present.
	ScoreDelta *int `json:"scoreDelta,omitempty"`
}

// Report is the result of an analysis or critique.
type Report struct {
	ID              string            `json:"id,omitempty"`
	Kind            string            `json:"kind"`
	Repo            string            `json:"repo,omitempty"`
	RepositoryName  string            `json:"repositoryName"`
	AnalysisType    string            `json:"analysisType"`
	JobRole         string            `json:"jobRole,omitempty"`
	Provider        llm.Provider      `json:"provider"`
	Model           string            `json:"model"`
	Text            string            `json:"text"`
	Score           *int              `json:"score,omitempty"`
	FilesAnalyzed   int               `json:"filesAnalyzed"`
	Fetch           fetch.Summary     `json:"fetch"`
	Usage           *types.TokenUsage `json:"usage,omitempty"`
	CrossValidation *CrossValidation  `json:"crossValidation,omitempty"`
	Timestamp       time.Time         `json:"timestamp"`
}

// Reviewer fetches repository files and asks an LLM to review them.
type Reviewer struct {
	fetcher   fetch.RepositoryFetcher
	clients   *llm.Registry
	analyzer  llm.Provider
	validator llm.Provider
	tier      llm.ModelTier
	archive   Archive
	now       func() time.Time
}

// Option configures a Reviewer.
type Option func(*Reviewer)

// WithAnalysisProvider selects the provider for rubric analyses. The registry
// default is used otherwise.
func WithAnalysisProvider(p llm.Provider) Option {
	return func(r *Reviewer) { r.analyzer = p }
}

// WithValidator selects the provider used for cross-validation.
func WithValidator(p llm.Provider) Option {
	return func(r *Reviewer) { r.validator = p }
}

// WithTier selects the model tier for rubric analyses.
func WithTier(tier llm.ModelTier) Option {
	return func(r *Reviewer) { r.tier = tier }
}

// WithArchive stores every finished report.
func WithArchive(a Archive) Option {
	return func(r *Reviewer) { r.archive = a }
}

// New creates a Reviewer.
func New(fetcher fetch.RepositoryFetcher, clients *llm.Registry, opts ...Option) *Reviewer {
	r := &Reviewer{
		fetcher: fetcher,
		clients: clients,
		tier:    llm.TierLite,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CanCrossValidate reports whether a validator provider is configured.
func (r *Reviewer) CanCrossValidate() bool {
	return r.validator != "" && r.clients.Has(r.validator)
}

// Analyze fetches the repository and scores it against the rubric for req.Type.
// Unknown types use the code quality rubric.
func (r *Reviewer) Analyze(ctx context.Context, req AnalyzeRequest) (*Report, error) {
	repo, err := fetch.ParseRepoURL(req.RepoURL)
	if err != nil {
		return nil, err
	}
	analysisType := req.Type
	if !analysisType.Valid() {
		analysisType = prompts.AnalysisCodeQuality
	}
	logger := observability.LoggerFromContext(ctx).With("repo", repo.String(), "analysis_type", analysisType)

	fetched, err := r.fetcher.FetchRepository(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}
	if len(fetched.Files) == 0 {
		return nil, ErrNoFiles
	}

	code := prompts.CodeBlock(sourceFiles(fetched.Files), analysisFileLimit, "\n\n", "package.json")

	client, err := r.clients.Get(r.analyzer)
	if err != nil {
		return nil, err
	}
	result, err := client.Complete(ctx, llm.Request{
		System:      prompts.AnalysisSystemPrompt(),
		User:        prompts.BuildAnalysisPrompt(analysisType, repo.String(), code),
		Tier:        r.tier,
		MaxTokens:   AnalysisMaxTokens,
		Temperature: AnalysisTemperature,
	})
	if err != nil {
		return nil, &GenerationError{Provider: client.Provider(), Err: err}
	}

	report := &Report{
		Kind:           db.ReportKindAnalysis,
		Repo:           repo.String(),
		RepositoryName: repo.Name,
		AnalysisType:   string(analysisType),
		Provider:       result.Provider,
		Model:          result.Model,
		Text:           result.Text,
		Score:          scorePtr(result.Text),
		FilesAnalyzed:  len(fetched.Files),
		Fetch:          fetched.Summary,
		Usage:          result.Usage,
		Timestamp:      r.now().UTC(),
	}
	logger.Info("repository analyzed", "files", report.FilesAnalyzed, "score", report.Score)

	if req.CrossValidate {
		report.CrossValidation = r.crossValidate(ctx, report, prompts.CodeBlock(sourceFiles(fetched.Files), critiqueFileLimit, "\n\n"))
	}
	r.save(ctx, report)
	return report, nil
}

// Critique sends a caller-written prompt to the provider named in its
// settings. When RepoURL names a GitHub repository its files are appended as
// context; fetch failures only drop that context.
func (r *Reviewer) Critique(ctx context.Context, req CritiqueRequest) (*Report, error) {
	logger := observability.LoggerFromContext(ctx)

	var (
		codeContext string
		files       []fetch.File
		summary     fetch.Summary
		repoName    string
	)
	if strings.Contains(req.RepoURL, "github.com") {
		if repo, err := fetch.ParseRepoURL(req.RepoURL); err == nil {
			repoName = repo.String()
			fetched, err := r.fetcher.FetchRepository(ctx, repo)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logger.Warn("critique continues without code", "repo", repoName, "error", err)
			default:
				files, summary = fetched.Files, fetched.Summary
				codeContext = prompts.CodeBlock(sourceFiles(files), critiqueFileLimit, "\n\n")
			}
		}
	}

	client, err := r.clients.Get(req.Settings.Provider)
	if err != nil {
		return nil, err
	}
	result, err := client.Complete(ctx, llm.Request{
		System:      prompts.CritiqueSystemPrompt(),
		User:        prompts.BuildCritiquePrompt(req.Prompt, codeContext),
		Model:       req.Settings.Model,
		Tier:        llm.TierAdvanced,
		MaxTokens:   req.Settings.MaxTokens,
		Temperature: req.Settings.Temperature,
		TopP:        req.Settings.TopP,
	})
	if err != nil {
		return nil, &GenerationError{Provider: client.Provider(), Err: err}
	}

	report := &Report{
		Kind:           db.ReportKindCritique,
		Repo:           repoName,
		RepositoryName: fetch.RepositoryName(req.RepoURL),
		AnalysisType:   critiqueReportType,
		JobRole:        req.JobRole,
		Provider:       result.Provider,
		Model:          result.Model,
		Text:           result.Text,
		Score:          scorePtr(result.Text),
		FilesAnalyzed:  len(files),
		Fetch:          summary,
		Usage:          result.Usage,
		Timestamp:      r.now().UTC(),
	}
	logger.Info("critique generated", "provider", report.Provider, "files", report.FilesAnalyzed)

	if req.CrossValidate {
		report.CrossValidation = r.crossValidate(ctx, report, codeContext)
	}
	r.save(ctx, report)
	return report, nil
}

// crossValidate asks the validator provider to check report. Failures are
// logged and yield nil so the primary report is still returned.
func (r *Reviewer) crossValidate(ctx context.Context, report *Report, codeContext string) *CrossValidation {
	logger := observability.LoggerFromContext(ctx)
	if !r.CanCrossValidate() {
		logger.Warn("cross-validation requested but no validator is configured")
		return nil
	}
	client, _ := r.clients.Get(r.validator)

	analysis := report.Text
	if len(analysis) > validationLimit {
		analysis = prompts.Clip(analysis, validationLimit) + validationSuffix
	}
	repo := report.Repo
	if repo == "" {
		repo = report.RepositoryName
	}

	result, err := client.Complete(ctx, llm.Request{
		System:      prompts.CritiqueSystemPrompt(),
		User:        prompts.BuildCrossValidationPrompt(repo, analysis, codeContext),
		Tier:        r.tier,
		MaxTokens:   ValidationMaxTokens,
		Temperature: ValidationTemperature,
		TopP:        ValidationTopP,
	})
	if err != nil {
		logger.Warn("cross-validation failed", "provider", client.Provider(), "error", err)
		return nil
	}

	cv := &CrossValidation{
		Provider: result.Provider,
		Model:    result.Model,
		Text:     result.Text,
		Score:    scorePtr(result.Text),
		Usage:    result.Usage,
	}
	if cv.Score != nil && report.Score != nil {
		delta := *cv.Score - *report.Score
		cv.ScoreDelta = &delta
	}
	return cv
}

func (r *Reviewer) save(ctx context.Context, report *Report) {
	if r.archive == nil {
		return
	}
	row := toReviewReport(report)
	if err := r.archive.SaveReviewReport(ctx, row); err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to archive review report", "error", err)
		return
	}
	report.ID = row.ID.String()
}

func toReviewReport(report *Report) *db.ReviewReport {
	row := &db.ReviewReport{
		Kind:           report.Kind,
		Repo:           report.Repo,
		RepositoryName: report.RepositoryName,
		AnalysisType:   report.AnalysisType,
		Provider:       string(report.Provider),
		Model:          report.Model,
		Score:          report.Score,
		FilesAnalyzed:  report.FilesAnalyzed,
		Content:        report.Text,
		Usage:          report.Usage,
		CreatedAt:      report.Timestamp,
	}
	if cv := report.CrossValidation; cv != nil {
		provider := string(cv.Provider)
		row.ValidatorProvider = &provider
		row.ValidatorScore = cv.Score
		row.ValidatorContent = types.Ptr(cv.Text)
	}
	return row
}

func sourceFiles(files []fetch.File) []prompts.SourceFile {
	out := make([]prompts.SourceFile, len(files))
	for i, f := range files {
		out[i] = prompts.SourceFile{Path: f.Path, Content: f.Content}
	}
	return out
}
