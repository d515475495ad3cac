package prompts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc\n... (truncated)", Truncate("abcdef", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	out := Truncate("ab€cdef", 3)
	assert.Equal(t, "ab\n... (truncated)", out)
	assert.True(t, utf8.ValidString(out))

	assert.Equal(t, "ab€", Clip("ab€cdef", 5))
	assert.Equal(t, "", Clip("€", 2))
	assert.Equal(t, "é", Clip("é", 2))
}

func TestCodeBlock(t *testing.T) {
	files := []SourceFile{
		{Path: "main.go", Content: strings.Repeat("a", 20)},
		{Path: "package.json", Content: strings.Repeat("b", 20)},
	}

	block := CodeBlock(files, 5, "\n\n", "package.json")
	assert.Equal(t, "=== main.go ===\naaaaa\n... (truncated)\n\n=== package.json ===\n"+strings.Repeat("b", 20), block)
}

func TestBuildAnalysisPrompt(t *testing.T) {
	for _, at := range AnalysisTypes {
		t.Run(string(at), func(t *testing.T) {
			p := BuildAnalysisPrompt(at, "octo/repo", "=== main.go ===\npackage main")
			assert.Contains(t, p, "octo/repo")
			assert.Contains(t, p, "package main")
			assert.Contains(t, p, "OVERALL SCORE: X/10")
		})
	}
}

func TestBuildAnalysisPrompt_UnknownTypeFallsBack(t *testing.T) {
	p := BuildAnalysisPrompt("nonsense", "octo/repo", "")
	assert.True(t, strings.HasPrefix(p, "CODE QUALITY REVIEW"))
}

func TestAnalysisTypeValid(t *testing.T) {
	assert.True(t, AnalysisSecurity.Valid())
	assert.False(t, AnalysisType("style").Valid())
}

func TestBuildCritiquePrompt(t *testing.T) {
	withCode := BuildCritiquePrompt("Check error handling.", "=== a.go ===\ncode")
	assert.True(t, strings.HasPrefix(withCode, "Check error handling.\n\nACTUAL CODEBASE ANALYSIS:\n=== a.go ==="))
	assert.Contains(t, withCode, "Base your analysis on the ACTUAL CODE")

	withoutCode := BuildCritiquePrompt("Check error handling.", "")
	assert.Equal(t, "Check error handling.\n\nNote: Analyzing based on prompt only - no code files available.", withoutCode)
}

func TestBuildCrossValidationPrompt(t *testing.T) {
	p := BuildCrossValidationPrompt("octo/repo", "Looks fine. OVERALL SCORE: 8/10", "=== a.go ===")
	assert.Contains(t, p, "ORIGINAL ANALYSIS:\nLooks fine. OVERALL SCORE: 8/10")
	assert.Contains(t, p, "=== a.go ===")
}

func TestSystemPrompts(t *testing.T) {
	assert.Contains(t, AnalysisSystemPrompt(), `Always end with "OVERALL SCORE: X/10".`)
	assert.Contains(t, CritiqueSystemPrompt(), "expert code reviewer")
}
