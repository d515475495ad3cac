package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_CallSiteParameters(t *testing.T) {
	fake := llm.NewFakeText("q", "f", "i", "s")
	g := NewGenerator(fake)
	ctx := context.Background()

	g.Question(ctx, "Backend Developer", 5, 1, "")
	g.Feedback(ctx, "answer", 5)
	g.IdealAnswer(ctx, "Backend Developer", 5, "What is a mutex?")
	g.FinalAssessment(ctx, "Ada")

	reqs := fake.Requests()
	require.Len(t, reqs, 4)

	wantTokens := []int{300, 200, 300, 250}
	for i, req := range reqs {
		assert.Equal(t, prompts.SystemPrompt(), req.System)
		assert.Equal(t, wantTokens[i], req.MaxTokens)
		assert.InDelta(t, 0.7, req.Temperature, 1e-9)
		assert.Equal(t, llm.TierLite, req.Tier)
	}
	assert.Contains(t, reqs[2].User, "QUESTION: What is a mutex?")
}

func TestGenerator_ReturnsGeneratedText(t *testing.T) {
	g := NewGenerator(llm.NewFakeText("Explain goroutines."))

	got := g.Question(context.Background(), "Go Developer", 3, 1, "")
	assert.Equal(t, "Explain goroutines.", got.Text)
	assert.False(t, got.Fallback)
	assert.NotNil(t, got.Usage)
}

func TestGenerator_FallbacksOnError(t *testing.T) {
	boom := errors.New("provider down")
	fake := llm.NewFake(
		llm.FakeReply{Err: boom},
		llm.FakeReply{Err: boom},
		llm.FakeReply{Err: boom},
		llm.FakeReply{Err: boom},
	)
	g := NewGenerator(fake)
	ctx := context.Background()

	q := g.Question(ctx, "Developer", 5, 1, "")
	f := g.Feedback(ctx, "x", 5)
	i := g.IdealAnswer(ctx, "Developer", 5, "q")
	s := g.FinalAssessment(ctx, "Ada")

	assert.Equal(t, FallbackQuestion, q.Text)
	assert.Equal(t, FallbackFeedback, f.Text)
	assert.Equal(t, FallbackIdealAnswer, i.Text)
	assert.Equal(t, FallbackFinalAssessment, s.Text)

	for _, gen := range []Generation{q, f, i, s} {
		assert.True(t, gen.Fallback)
		assert.Nil(t, gen.Usage)
	}
}

func TestGenerator_FallbackTextsAreDistinct(t *testing.T) {
	all := []string{FallbackQuestion, FallbackFeedback, FallbackIdealAnswer, FallbackFinalAssessment}
	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s], "duplicate fallback %q", s)
		seen[s] = true
	}
}

func TestGenerator_FallbackOnEmptyText(t *testing.T) {
	g := NewGenerator(llm.NewFakeText("", "   \n"))

	assert.Equal(t, FallbackFeedback, g.Feedback(context.Background(), "a", 1).Text)
	assert.Equal(t, FallbackIdealAnswer, g.IdealAnswer(context.Background(), "r", 1, "q").Text)
}

func TestGenerator_NilClient(t *testing.T) {
	g := NewGenerator(nil)
	got := g.Question(context.Background(), "Developer", 5, 1, "")
	assert.Equal(t, FallbackQuestion, got.Text)
	assert.True(t, got.Fallback)
}

func TestGenerator_Options(t *testing.T) {
	fake := llm.NewFakeText("x")
	g := NewGenerator(fake, WithTier(llm.TierAdvanced), WithModel("pinned"))

	g.Feedback(context.Background(), "a", 2)
	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, llm.TierAdvanced, reqs[0].Tier)
	assert.Equal(t, "pinned", reqs[0].Model)
}
