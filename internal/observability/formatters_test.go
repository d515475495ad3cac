package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMessage(types.ChatMessage{Role: types.RoleAssistant, Content: "Hello!\n\nWhat's your name?"})
	p.PrintMessage(types.ChatMessage{Role: types.RoleUser, Content: "Ada"})

	assert.Equal(t, "Coach:\n  Hello!\n  \n  What's your name?\n\nYou:\n  Ada\n\n", buf.String())
}

func TestPrintMessage_Wraps(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMessage(types.ChatMessage{Role: types.RoleAssistant, Content: strings.Repeat("word ", 40)})
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), wrapWidth)
	}
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	state := types.InitialState()
	state.Stage = types.StageInterviewing
	state.CurrentQuestionCount = 2
	state.UserData = types.UserData{
		Name:                       types.Ptr("Ada"),
		JobRole:                    types.Ptr("AI Engineer"),
		AISpecialization:           types.Ptr(types.SpecializationLLM),
		Difficulty:                 types.Ptr(7),
		InappropriateResponseCount: 1,
	}

	p.PrintProfile(state)
	output := buf.String()

	assert.Contains(t, output, "INTERVIEW SESSION")
	assert.Contains(t, output, "interviewing")
	assert.Contains(t, output, "AI Engineer (LLM Engineering)")
	assert.Contains(t, output, "7/10")
	assert.Contains(t, output, "2/5")
	assert.Contains(t, output, "Warnings:    1")
	assert.NotContains(t, output, "Job desc")
}

func TestPrintReview(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReview(ReviewSummary{
		Repo:              "acme/widgets",
		Provider:          "openai",
		Model:             "gpt-4o-mini",
		Score:             types.Ptr(8),
		FilesAnalyzed:     4,
		Usage:             &types.TokenUsage{InputTokens: 1200, OutputTokens: 400},
		ValidatorProvider: "anthropic",
	}, "  Findings here.\nOVERALL SCORE: 8/10  ")
	output := buf.String()

	assert.Contains(t, output, "REPOSITORY REVIEW")
	assert.Contains(t, output, "acme/widgets")
	assert.Contains(t, output, "openai (gpt-4o-mini)")
	assert.Contains(t, output, "Score:       8/10")
	assert.Contains(t, output, "1200 in / 400 out")
	assert.Contains(t, output, "anthropic, score n/a")
	assert.True(t, strings.HasSuffix(output, "Findings here.\nOVERALL SCORE: 8/10\n"))
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("T", strings.Repeat("é", 100))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[3], "...")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 8))
	assert.Equal(t, []string{"supercalifragilistic"}, wrap("supercalifragilistic", 5))
	assert.Equal(t, []string{""}, wrap("", 10))
}
