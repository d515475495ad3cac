package server

import (
	"net/http"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/review"
	"github.com/jonathan/interview-coach/internal/types"
)

// Critique sampling defaults when the request carries no llmSettings.
const (
	critiqueTemperature = 0.3
	critiqueMaxTokens   = 2000
)

const invalidAnalyzeRequest = "Invalid request format. Expected adminCritique with critiquePrompt or repoUrl with analysisType"

// handleGitHubAnalyze dispatches to a rubric analysis or a critique depending
// on the body.
func (s *Server) handleGitHubAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.reviewer == nil {
		unavailable(w, r, "Repository review")
		return
	}

	var req types.GitHubAnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	switch {
	case req.IsCritique():
		s.handleCritique(w, r, req.Critique())
	case req.IsAnalysis():
		s.handleAnalysis(w, r, req.Analysis())
	default:
		errorResponse(w, r, &ErrValidation{Message: invalidAnalyzeRequest})
	}
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request, req types.RepoAnalysisRequest) {
	if err := req.Validate(); err != nil {
		errorResponse(w, r, requestValidationError(err))
		return
	}

	report, err := s.reviewer.Analyze(r.Context(), review.AnalyzeRequest{
		RepoURL:       req.RepoURL,
		Type:          prompts.AnalysisType(req.AnalysisType),
		CrossValidate: req.CrossValidate,
	})
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	jsonResponse(w, r, http.StatusOK, map[string]any{
		"success":         true,
		"question":        report.Text,
		"score":           report.Score,
		"usage":           report.Usage,
		"crossValidation": report.CrossValidation,
		"metadata": map[string]any{
			"id":            report.ID,
			"repo":          report.Repo,
			"provider":      report.Provider,
			"model":         report.Model,
			"filesAnalyzed": report.FilesAnalyzed,
			"fetch":         report.Fetch,
			"timestamp":     report.Timestamp.Format(time.RFC3339),
			"analysisType":  report.AnalysisType,
		},
	})
}

func (s *Server) handleCritique(w http.ResponseWriter, r *http.Request, req types.CritiqueRequest) {
	if err := req.Validate(); err != nil {
		errorResponse(w, r, requestValidationError(err))
		return
	}
	settings, err := critiqueSettings(req.LLMSettings)
	if err != nil {
		errorResponse(w, r, &ErrValidation{Field: "llmSettings.provider", Message: err.Error()})
		return
	}

	report, err := s.reviewer.Critique(r.Context(), review.CritiqueRequest{
		Prompt:        req.CritiquePrompt,
		Settings:      settings,
		JobRole:       req.JobRole,
		RepoURL:       req.RepoURL,
		CrossValidate: req.CrossValidate,
	})
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	jsonResponse(w, r, http.StatusOK, map[string]any{
		"success":         true,
		"question":        report.Text,
		"score":           report.Score,
		"usage":           report.Usage,
		"crossValidation": report.CrossValidation,
		"metadata": map[string]any{
			"id":             report.ID,
			"provider":       report.Provider,
			"model":          report.Model,
			"timestamp":      report.Timestamp.Format(time.RFC3339),
			"jobRole":        report.JobRole,
			"filesAnalyzed":  report.FilesAnalyzed,
			"repositoryName": report.RepositoryName,
			"analysisType":   report.AnalysisType,
		},
	})
}

// critiqueSettings fills review settings from the request, keeping defaults
// for absent fields. An empty provider selects the registry default.
func critiqueSettings(in *types.LLMSettings) (review.Settings, error) {
	out := review.Settings{Temperature: critiqueTemperature, MaxTokens: critiqueMaxTokens}
	if in == nil {
		return out, nil
	}
	if in.Provider != "" {
		p, err := llm.ParseProvider(in.Provider)
		if err != nil {
			return out, err
		}
		out.Provider = p
	}
	out.Model = in.Model
	if in.Temperature != nil {
		out.Temperature = *in.Temperature
	}
	if in.MaxTokens != nil {
		out.MaxTokens = *in.MaxTokens
	}
	if in.TopP != nil {
		out.TopP = *in.TopP
	}
	return out, nil
}

func (s *Server) handleGitHubAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"status": "Admin review API is running!",
		"features": []string{
			"Project criteria validation with GitHub files",
			"GitHub security analysis",
			"Code quality review",
			"Architecture analysis",
			"Performance analysis",
			"Cross-validation support",
			"Multi-LLM support (OpenAI, Claude, Gemini)",
		},
		"crossValidation": s.reviewer != nil && s.reviewer.CanCrossValidate(),
		"timestamp":       s.now().UTC().Format(time.RFC3339),
	})
}
