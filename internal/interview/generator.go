// Package interview implements the interview conversation: the stage machine
// that drives a session and the LLM-backed generation of questions, feedback,
// ideal answers and the closing assessment.
package interview

import (
	"context"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// Fallback texts returned when a generation fails or comes back empty.
const (
	FallbackQuestion        = "Could you tell me about your experience with this technology?"
	FallbackFeedback        = "Thank you for your answer. Let's continue with the next question."
	FallbackIdealAnswer     = "A strong answer would demonstrate clear technical understanding with practical examples."
	FallbackFinalAssessment = "Thank you for completing the interview. I recommend focusing on technical fundamentals and practicing more structured answers for future interviews."
)

// callSite fixes the generation parameters and fallback of one prompt kind.
type callSite struct {
	name        string
	maxTokens   int
	temperature float64
	fallback    string
}

var (
	questionSite        = callSite{name: "question", maxTokens: 300, temperature: 0.7, fallback: FallbackQuestion}
	feedbackSite        = callSite{name: "feedback", maxTokens: 200, temperature: 0.7, fallback: FallbackFeedback}
	idealAnswerSite     = callSite{name: "ideal_answer", maxTokens: 300, temperature: 0.7, fallback: FallbackIdealAnswer}
	finalAssessmentSite = callSite{name: "final_assessment", maxTokens: 250, temperature: 0.7, fallback: FallbackFinalAssessment}
)

// Generation is the text produced at one call site. Usage is nil and
// Fallback is true when the literal fallback was substituted.
type Generation struct {
	Text     string
	Usage    *types.TokenUsage
	Fallback bool
}

// Generator produces interview content through an LLM client. It never
// returns an error: every failure degrades to the call site's fallback text.
type Generator struct {
	client llm.Client
	tier   llm.ModelTier
	model  string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithTier selects the model tier used for every call (default lite).
func WithTier(tier llm.ModelTier) GeneratorOption {
	return func(g *Generator) { g.tier = tier }
}

// WithModel pins an explicit model name, overriding the tier.
func WithModel(model string) GeneratorOption {
	return func(g *Generator) { g.model = model }
}

// NewGenerator creates a Generator backed by client.
func NewGenerator(client llm.Client, opts ...GeneratorOption) *Generator {
	g := &Generator{client: client, tier: llm.TierLite}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Question generates interview question number for roleContext.
// previousContext is optional.
func (g *Generator) Question(ctx context.Context, roleContext string, difficulty, number int, previousContext string) Generation {
	return g.generate(ctx, questionSite, prompts.BuildQuestionPrompt(roleContext, difficulty, number, previousContext))
}

// Feedback generates brief feedback on answer.
func (g *Generator) Feedback(ctx context.Context, answer string, difficulty int) Generation {
	return g.generate(ctx, feedbackSite, prompts.BuildFeedbackPrompt(answer, difficulty))
}

// IdealAnswer generates an expert answer to question.
func (g *Generator) IdealAnswer(ctx context.Context, roleContext string, difficulty int, question string) Generation {
	return g.generate(ctx, idealAnswerSite, prompts.BuildIdealAnswerPrompt(roleContext, difficulty, question))
}

// FinalAssessment generates the closing summary for name.
func (g *Generator) FinalAssessment(ctx context.Context, name string) Generation {
	return g.generate(ctx, finalAssessmentSite, prompts.BuildFinalAssessmentPrompt(name))
}

func (g *Generator) generate(ctx context.Context, site callSite, userPrompt string) Generation {
	log := observability.LoggerFromContext(ctx).With("call_site", site.name)

	if g.client == nil {
		log.Warn("no LLM client configured, using fallback")
		return Generation{Text: site.fallback, Fallback: true}
	}

	res, err := g.client.Complete(ctx, llm.Request{
		System:      prompts.SystemPrompt(),
		User:        userPrompt,
		Model:       g.model,
		Tier:        g.tier,
		MaxTokens:   site.maxTokens,
		Temperature: site.temperature,
	})
	if err != nil {
		log.Warn("generation failed, using fallback", "error", err)
		return Generation{Text: site.fallback, Fallback: true}
	}
	if strings.TrimSpace(res.Text) == "" {
		log.Warn("generation returned empty text, using fallback", "provider", res.Provider, "model", res.Model)
		return Generation{Text: site.fallback, Fallback: true}
	}

	log.Debug("generation complete", "provider", res.Provider, "model", res.Model)
	return Generation{Text: res.Text, Usage: res.Usage}
}
