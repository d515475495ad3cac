package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	jobRolePattern        = regexp.MustCompile(`^[a-zA-Z0-9\s\-/]+$`)
	jobDescriptionPattern = regexp.MustCompile("^[a-zA-Z0-9\\s\\-/.,:;()\\[\\]{}@#$%^&*+=?!~`\"']*$")
	modelNamePattern      = regexp.MustCompile(`^[a-zA-Z0-9._:/\-]+$`)
	githubRepoPattern     = regexp.MustCompile(`^https://github\.com/[a-zA-Z0-9\-_.]+/[a-zA-Z0-9\-_.]+/?$`)
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator returns the shared validator with the custom tags registered.
// Field names in errors are the JSON names.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "jobrole", jobRolePattern)
		mustRegister(v, "jobdescription", jobDescriptionPattern)
		mustRegister(v, "modelname", modelNamePattern)
		mustRegister(v, "githubrepo", githubRepoPattern)
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ValidationMessages flattens a validator error into "field: message" lines.
// Errors of any other type yield their own message.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: %s", fieldPath(fe), describe(fe)))
	}
	return out
}

// fieldPath drops the struct name prefix: "PracticeQuestionRequest.llmSettings.topP" → "llmSettings.topP".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "jobrole", "jobdescription", "modelname":
		return "contains invalid characters"
	case "githubrepo", "url":
		return "invalid GitHub repository URL format"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// LLMSettings overrides the provider and sampling parameters of a single
// generation. Nil fields keep the caller's defaults.
type LLMSettings struct {
	Provider         string   `json:"provider,omitempty" validate:"omitempty,oneof=openai claude anthropic gemini google"`
	Model            string   `json:"model,omitempty" validate:"omitempty,max=100,modelname"`
	Temperature      *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxTokens        *int     `json:"maxTokens,omitempty" validate:"omitempty,gte=50,lte=4000"`
	TopP             *float64 `json:"topP,omitempty" validate:"omitempty,gte=0.1,lte=1"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty" validate:"omitempty,gte=-2,lte=2"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty" validate:"omitempty,gte=-2,lte=2"`
}

// PracticeQuestionRequest asks for one interview question.
type PracticeQuestionRequest struct {
	JobRole        string       `json:"jobRole" validate:"required,min=2,max=100,jobrole"`
	InterviewType  string       `json:"interviewType" validate:"required,oneof=technical behavioral industry system-design coding leadership cultural-fit"`
	Difficulty     int          `json:"difficulty" validate:"required,gte=1,lte=10"`
	JobDescription string       `json:"jobDescription,omitempty" validate:"omitempty,max=2000,jobdescription"`
	LLMSettings    *LLMSettings `json:"llmSettings,omitempty"`
}

// Normalize trims the free-text fields.
func (r *PracticeQuestionRequest) Normalize() {
	r.JobRole = strings.TrimSpace(r.JobRole)
	r.JobDescription = strings.TrimSpace(r.JobDescription)
}

// Validate validates the PracticeQuestionRequest using the validator.
func (r *PracticeQuestionRequest) Validate() error {
	return requestValidator().Struct(r)
}

// EvaluationRequest asks for feedback on one answer.
type EvaluationRequest struct {
	Question      string       `json:"question" validate:"required,min=10,max=2000"`
	Answer        string       `json:"answer" validate:"required,min=5,max=5000"`
	JobRole       string       `json:"jobRole" validate:"required,min=2,max=100"`
	InterviewType string       `json:"interviewType" validate:"required,oneof=technical behavioral industry system-design coding leadership cultural-fit"`
	Difficulty    int          `json:"difficulty" validate:"required,gte=1,lte=10"`
	LLMSettings   *LLMSettings `json:"llmSettings,omitempty"`
}

// Normalize trims the free-text fields.
func (r *EvaluationRequest) Normalize() {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
	r.JobRole = strings.TrimSpace(r.JobRole)
}

// Validate validates the EvaluationRequest using the validator.
func (r *EvaluationRequest) Validate() error {
	return requestValidator().Struct(r)
}

// GitHubAnalyzeRequest is the admin review body. It carries either a rubric
// analysis (repoUrl + analysisType) or a critique (adminCritique + critiquePrompt).
type GitHubAnalyzeRequest struct {
	RepoURL        string       `json:"repoUrl,omitempty"`
	AnalysisType   string       `json:"analysisType,omitempty"`
	AdminCritique  bool         `json:"adminCritique,omitempty"`
	CritiquePrompt string       `json:"critiquePrompt,omitempty"`
	LLMSettings    *LLMSettings `json:"llmSettings,omitempty"`
	JobRole        string       `json:"jobRole,omitempty"`
	CrossValidate  bool         `json:"crossValidate,omitempty"`
}

// IsCritique reports whether the body asks for a critique.
func (r *GitHubAnalyzeRequest) IsCritique() bool {
	return r.AdminCritique && strings.TrimSpace(r.CritiquePrompt) != ""
}

// IsAnalysis reports whether the body asks for a rubric analysis.
func (r *GitHubAnalyzeRequest) IsAnalysis() bool {
	return !r.AdminCritique && r.RepoURL != "" && r.AnalysisType != ""
}

// RepoAnalysisRequest is the validated rubric-analysis form of GitHubAnalyzeRequest.
type RepoAnalysisRequest struct {
	RepoURL       string `json:"repoUrl" validate:"required,url,githubrepo"`
	AnalysisType  string `json:"analysisType" validate:"required,oneof=security codeQuality architecture performance"`
	CrossValidate bool   `json:"crossValidate"`
}

// Analysis extracts the rubric-analysis fields.
func (r *GitHubAnalyzeRequest) Analysis() RepoAnalysisRequest {
	return RepoAnalysisRequest{
		RepoURL:       strings.TrimSpace(r.RepoURL),
		AnalysisType:  r.AnalysisType,
		CrossValidate: r.CrossValidate,
	}
}

// Validate validates the RepoAnalysisRequest using the validator.
func (r *RepoAnalysisRequest) Validate() error {
	return requestValidator().Struct(r)
}

// CritiqueRequest is the validated critique form of GitHubAnalyzeRequest.
type CritiqueRequest struct {
	CritiquePrompt string       `json:"critiquePrompt" validate:"required,max=20000"`
	LLMSettings    *LLMSettings `json:"llmSettings,omitempty"`
	JobRole        string       `json:"jobRole,omitempty" validate:"omitempty,max=100"`
	RepoURL        string       `json:"repoUrl,omitempty" validate:"omitempty,url"`
	CrossValidate  bool         `json:"crossValidate"`
}

// Critique extracts the critique fields.
func (r *GitHubAnalyzeRequest) Critique() CritiqueRequest {
	return CritiqueRequest{
		CritiquePrompt: r.CritiquePrompt,
		LLMSettings:    r.LLMSettings,
		JobRole:        strings.TrimSpace(r.JobRole),
		RepoURL:        strings.TrimSpace(r.RepoURL),
		CrossValidate:  r.CrossValidate,
	}
}

// Validate validates the CritiqueRequest using the validator.
func (r *CritiqueRequest) Validate() error {
	return requestValidator().Struct(r)
}
