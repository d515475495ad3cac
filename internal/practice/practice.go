// Package practice generates single interview questions on demand and
// evaluates free-form answers to them.
package practice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/jonathan/interview-coach/internal/validation"
)

// Default sampling parameters for question generation.
const (
	QuestionTemperature      = 0.7
	QuestionTopP             = 0.9
	QuestionFrequencyPenalty = 0.3
)

// Default sampling parameters for answer evaluation.
const (
	EvaluationTemperature = 0.3
	EvaluationMaxTokens   = 500
	// DefaultScore is reported when the evaluation carries no SCORE line.
	DefaultScore = 5
)

// ErrEmptyQuestion is returned when the provider answers with no text.
var ErrEmptyQuestion = errors.New("no question was generated")

var scorePattern = regexp.MustCompile(`(?i)SCORE:\s*(\d+)`)

// InputError reports free text rejected by the prompt-injection screen.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// GenerationError wraps a provider failure.
type GenerationError struct {
	Provider llm.Provider
	Op       string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to %s with %s: %v", e.Op, e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// QuestionMaxTokens is the completion budget for a question of the given difficulty.
func QuestionMaxTokens(difficulty int) int {
	switch {
	case difficulty <= 3:
		return 100
	case difficulty <= 6:
		return 200
	default:
		return 300
	}
}

// ParseScore returns the first "SCORE: N" in text, or DefaultScore.
func ParseScore(text string) int {
	m := scorePattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultScore
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultScore
	}
	return n
}

// Question is a generated practice question.
type Question struct {
	Text      string            `json:"question"`
	Provider  llm.Provider      `json:"provider"`
	Model     string            `json:"model"`
	Usage     *types.TokenUsage `json:"usage,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Evaluation is the scored feedback for one answer.
type Evaluation struct {
	RawFeedback string            `json:"rawFeedback"`
	Score       int               `json:"score"`
	Timestamp   time.Time         `json:"timestamp"`
	Provider    llm.Provider      `json:"-"`
	Model       string            `json:"-"`
	Usage       *types.TokenUsage `json:"-"`
}

// Service answers practice requests through the provider registry.
type Service struct {
	clients *llm.Registry
	now     func() time.Time
}

// New creates a Service. Requests without a provider use the registry default.
func New(clients *llm.Registry) *Service {
	return &Service{clients: clients, now: time.Now}
}

// sampling is the resolved set of generation parameters.
type sampling struct {
	provider         llm.Provider
	model            string
	temperature      float64
	maxTokens        int
	topP             float64
	frequencyPenalty float64
	presencePenalty  float64
}

func (s sampling) apply(settings *types.LLMSettings) (sampling, error) {
	if settings == nil {
		return s, nil
	}
	if settings.Provider != "" {
		p, err := llm.ParseProvider(settings.Provider)
		if err != nil {
			return s, err
		}
		s.provider = p
	}
	if settings.Model != "" {
		s.model = settings.Model
	}
	if settings.Temperature != nil {
		s.temperature = *settings.Temperature
	}
	if settings.MaxTokens != nil {
		s.maxTokens = *settings.MaxTokens
	}
	if settings.TopP != nil {
		s.topP = *settings.TopP
	}
	if settings.FrequencyPenalty != nil {
		s.frequencyPenalty = *settings.FrequencyPenalty
	}
	if settings.PresencePenalty != nil {
		s.presencePenalty = *settings.PresencePenalty
	}
	return s, nil
}

func (s sampling) request(system, user string) llm.Request {
	return llm.Request{
		System:           system,
		User:             user,
		Model:            s.model,
		Tier:             llm.TierLite,
		MaxTokens:        s.maxTokens,
		Temperature:      s.temperature,
		TopP:             s.topP,
		FrequencyPenalty: s.frequencyPenalty,
		PresencePenalty:  s.presencePenalty,
	}
}

// Question generates one question for req. The role and job description are
// screened and sanitized before they reach the prompt.
func (s *Service) Question(ctx context.Context, req types.PracticeQuestionRequest) (*Question, error) {
	if check := validation.ValidateInput(req.JobRole); !check.Valid {
		return nil, &InputError{Field: "job role", Reason: check.Reason}
	}
	if req.JobDescription != "" {
		if check := validation.ValidateInput(req.JobDescription); !check.Valid {
			return nil, &InputError{Field: "job description", Reason: check.Reason}
		}
	}

	params, err := sampling{
		temperature:      QuestionTemperature,
		maxTokens:        QuestionMaxTokens(req.Difficulty),
		topP:             QuestionTopP,
		frequencyPenalty: QuestionFrequencyPenalty,
	}.apply(req.LLMSettings)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.Get(params.provider)
	if err != nil {
		return nil, err
	}

	userPrompt := prompts.BuildPracticeQuestionPrompt(prompts.PracticeQuestionInput{
		JobRole:        validation.SanitizeForAI(req.JobRole),
		InterviewType:  prompts.InterviewType(req.InterviewType),
		Difficulty:     req.Difficulty,
		JobDescription: validation.SanitizeForAI(req.JobDescription),
	})

	logger := observability.LoggerFromContext(ctx).With("provider", client.Provider(), "interview_type", req.InterviewType)
	result, err := client.Complete(ctx, params.request(prompts.PracticeQuestionSystemPrompt(), userPrompt))
	if err != nil {
		logger.Warn("practice question generation failed", "error", err)
		return nil, &GenerationError{Provider: client.Provider(), Op: "generate question", Err: err}
	}
	text := strings.TrimSpace(result.Text)
	if text == "" {
		return nil, &GenerationError{Provider: client.Provider(), Op: "generate question", Err: ErrEmptyQuestion}
	}
	logger.Info("practice question generated", "model", result.Model, "difficulty", req.Difficulty)

	return &Question{
		Text:      text,
		Provider:  result.Provider,
		Model:     result.Model,
		Usage:     result.Usage,
		Timestamp: s.now().UTC(),
	}, nil
}

// Evaluate scores an answer. The answer is screened and sanitized; the question
// only has to pass the screen.
func (s *Service) Evaluate(ctx context.Context, req types.EvaluationRequest) (*Evaluation, error) {
	if check := validation.ValidateInput(req.Question); !check.Valid {
		return nil, &InputError{Field: "question", Reason: check.Reason}
	}
	if check := validation.ValidateInput(req.Answer); !check.Valid {
		return nil, &InputError{Field: "answer", Reason: check.Reason}
	}

	params, err := sampling{
		temperature: EvaluationTemperature,
		maxTokens:   EvaluationMaxTokens,
	}.apply(req.LLMSettings)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.Get(params.provider)
	if err != nil {
		return nil, err
	}

	userPrompt := prompts.BuildEvaluationPrompt(prompts.EvaluationInput{
		Question:      req.Question,
		Answer:        validation.SanitizeForAI(req.Answer),
		JobRole:       req.JobRole,
		InterviewType: prompts.InterviewType(req.InterviewType),
		Difficulty:    req.Difficulty,
	})

	logger := observability.LoggerFromContext(ctx).With("provider", client.Provider(), "interview_type", req.InterviewType)
	result, err := client.Complete(ctx, params.request(prompts.EvaluationSystemPrompt(), userPrompt))
	if err != nil {
		logger.Warn("answer evaluation failed", "error", err)
		return nil, &GenerationError{Provider: client.Provider(), Op: "evaluate answer", Err: err}
	}

	score := ParseScore(result.Text)
	logger.Info("answer evaluated", "model", result.Model, "score", score)

	return &Evaluation{
		RawFeedback: result.Text,
		Score:       score,
		Timestamp:   s.now().UTC(),
		Provider:    result.Provider,
		Model:       result.Model,
		Usage:       result.Usage,
	}, nil
}
