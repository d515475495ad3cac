package types

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestionRequest() PracticeQuestionRequest {
	return PracticeQuestionRequest{
		JobRole:       "Backend Engineer",
		InterviewType: "technical",
		Difficulty:    5,
	}
}

func TestPracticeQuestionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *PracticeQuestionRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(r *PracticeQuestionRequest) {}},
		{
			name:   "role with slash and hyphen",
			mutate: func(r *PracticeQuestionRequest) { r.JobRole = "Dev-Ops / SRE" },
		},
		{
			name:    "missing role",
			mutate:  func(r *PracticeQuestionRequest) { r.JobRole = "" },
			wantErr: "jobRole: is required",
		},
		{
			name:    "role too short",
			mutate:  func(r *PracticeQuestionRequest) { r.JobRole = "a" },
			wantErr: "jobRole: must be at least 2 characters",
		},
		{
			name:    "role with invalid characters",
			mutate:  func(r *PracticeQuestionRequest) { r.JobRole = "Engineer <script>" },
			wantErr: "jobRole: contains invalid characters",
		},
		{
			name:    "unknown interview type",
			mutate:  func(r *PracticeQuestionRequest) { r.InterviewType = "trivia" },
			wantErr: "interviewType: must be one of",
		},
		{
			name:   "system design type",
			mutate: func(r *PracticeQuestionRequest) { r.InterviewType = "system-design" },
		},
		{
			name:    "difficulty zero",
			mutate:  func(r *PracticeQuestionRequest) { r.Difficulty = 0 },
			wantErr: "difficulty: is required",
		},
		{
			name:    "difficulty above range",
			mutate:  func(r *PracticeQuestionRequest) { r.Difficulty = 11 },
			wantErr: "difficulty: must be at most 10",
		},
		{
			name:    "job description too long",
			mutate:  func(r *PracticeQuestionRequest) { r.JobDescription = strings.Repeat("a", 2001) },
			wantErr: "jobDescription: must not exceed 2000 characters",
		},
		{
			name:   "job description punctuation",
			mutate: func(r *PracticeQuestionRequest) { r.JobDescription = "Go, Postgres (v16); 5+ years @ scale!" },
		},
		{
			name: "temperature zero is allowed",
			mutate: func(r *PracticeQuestionRequest) {
				r.LLMSettings = &LLMSettings{Temperature: Ptr(0.0)}
			},
		},
		{
			name: "top p below range",
			mutate: func(r *PracticeQuestionRequest) {
				r.LLMSettings = &LLMSettings{TopP: Ptr(0.05)}
			},
			wantErr: "llmSettings.topP: must be at least 0.1",
		},
		{
			name: "max tokens above range",
			mutate: func(r *PracticeQuestionRequest) {
				r.LLMSettings = &LLMSettings{MaxTokens: Ptr(5000)}
			},
			wantErr: "llmSettings.maxTokens: must be at most 4000",
		},
		{
			name: "unknown provider",
			mutate: func(r *PracticeQuestionRequest) {
				r.LLMSettings = &LLMSettings{Provider: "cohere"}
			},
			wantErr: "llmSettings.provider: must be one of",
		},
		{
			name: "claude provider",
			mutate: func(r *PracticeQuestionRequest) {
				r.LLMSettings = &LLMSettings{Provider: "claude", Model: "claude-3-haiku-20240307"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validQuestionRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			msgs := ValidationMessages(err)
			require.Len(t, msgs, 1)
			assert.Contains(t, msgs[0], tt.wantErr)
		})
	}
}

func TestPracticeQuestionRequest_Normalize(t *testing.T) {
	req := PracticeQuestionRequest{JobRole: "  Data Engineer  ", JobDescription: "\n Spark \n"}
	req.Normalize()
	assert.Equal(t, "Data Engineer", req.JobRole)
	assert.Equal(t, "Spark", req.JobDescription)
}

func TestEvaluationRequest_Validate(t *testing.T) {
	valid := EvaluationRequest{
		Question:      "How do you size a connection pool?",
		Answer:        "Measure first.",
		JobRole:       "Backend Engineer",
		InterviewType: "technical",
		Difficulty:    4,
	}
	require.NoError(t, valid.Validate())

	short := valid
	short.Question = "Why?"
	err := short.Validate()
	require.Error(t, err)
	assert.Equal(t, []string{"question: must be at least 10 characters"}, ValidationMessages(err))

	missing := EvaluationRequest{}
	err = missing.Validate()
	require.Error(t, err)
	assert.Len(t, ValidationMessages(err), 5)
}

func TestGitHubAnalyzeRequest_Modes(t *testing.T) {
	analysis := GitHubAnalyzeRequest{RepoURL: "https://github.com/acme/widgets", AnalysisType: "security"}
	assert.True(t, analysis.IsAnalysis())
	assert.False(t, analysis.IsCritique())

	critique := GitHubAnalyzeRequest{AdminCritique: true, CritiquePrompt: "Grade this", RepoURL: "https://github.com/acme/widgets"}
	assert.True(t, critique.IsCritique())
	assert.False(t, critique.IsAnalysis())

	blankPrompt := GitHubAnalyzeRequest{AdminCritique: true, CritiquePrompt: "   "}
	assert.False(t, blankPrompt.IsCritique())
	assert.False(t, blankPrompt.IsAnalysis())
}

func TestRepoAnalysisRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     GitHubAnalyzeRequest
		wantErr string
	}{
		{
			name: "valid",
			req:  GitHubAnalyzeRequest{RepoURL: " https://github.com/acme/widgets/ ", AnalysisType: "architecture"},
		},
		{
			name:    "not github",
			req:     GitHubAnalyzeRequest{RepoURL: "https://gitlab.com/acme/widgets", AnalysisType: "security"},
			wantErr: "repoUrl: invalid GitHub repository URL format",
		},
		{
			name:    "unknown analysis type",
			req:     GitHubAnalyzeRequest{RepoURL: "https://github.com/acme/widgets", AnalysisType: "vibes"},
			wantErr: "analysisType: must be one of",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.req.Analysis()
			err := a.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, strings.Join(ValidationMessages(err), "\n"), tt.wantErr)
		})
	}
}

func TestCritiqueRequest_Validate(t *testing.T) {
	req := GitHubAnalyzeRequest{
		AdminCritique:  true,
		CritiquePrompt: "Assess the candidate project.",
		JobRole:        " Platform Engineer ",
		LLMSettings:    &LLMSettings{Provider: "anthropic", Temperature: Ptr(0.4)},
	}
	c := req.Critique()
	require.NoError(t, c.Validate())
	assert.Equal(t, "Platform Engineer", c.JobRole)

	c.LLMSettings.Temperature = Ptr(3.0)
	err := c.Validate()
	require.Error(t, err)
	assert.Equal(t, []string{"llmSettings.temperature: must be at most 2"}, ValidationMessages(err))
}

func TestValidationMessages_OtherErrors(t *testing.T) {
	assert.Nil(t, ValidationMessages(nil))
	assert.Equal(t, []string{"boom"}, ValidationMessages(errors.New("boom")))
}
