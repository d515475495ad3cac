package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const reviewFile = "review.json"

// AnalysisType selects the rubric used for a repository analysis.
type AnalysisType string

// Analysis types
const (
	AnalysisSecurity     AnalysisType = "security"
	AnalysisCodeQuality  AnalysisType = "codeQuality"
	AnalysisArchitecture AnalysisType = "architecture"
	AnalysisPerformance  AnalysisType = "performance"
)

// AnalysisTypes lists every supported analysis type.
var AnalysisTypes = []AnalysisType{AnalysisSecurity, AnalysisCodeQuality, AnalysisArchitecture, AnalysisPerformance}

// Valid reports whether t is a known analysis type.
func (t AnalysisType) Valid() bool {
	for _, known := range AnalysisTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SourceFile is one fetched repository file placed into a review prompt.
type SourceFile struct {
	Path    string
	Content string
}

const truncatedMarker = "\n... (truncated)"

// Truncate cuts content to at most limit bytes and appends the truncation
// marker. Content at or under the limit is returned unchanged.
func Truncate(content string, limit int) string {
	if limit <= 0 || len(content) <= limit {
		return content
	}
	return Clip(content, limit) + truncatedMarker
}

// Clip returns the longest prefix of s that fits in limit bytes without
// splitting a rune.
func Clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// CodeBlock renders files as "=== path ===" sections, truncating each to
// limit bytes. Files named in untruncated are never cut.
func CodeBlock(files []SourceFile, limit int, separator string, untruncated ...string) string {
	keep := make(map[string]bool, len(untruncated))
	for _, name := range untruncated {
		keep[name] = true
	}

	parts := make([]string, 0, len(files))
	for _, f := range files {
		content := f.Content
		if !keep[f.Path] {
			content = Truncate(content, limit)
		}
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s", f.Path, content))
	}
	return strings.Join(parts, separator)
}

// AnalysisSystemPrompt is the system prompt for rubric-based repository analysis.
func AnalysisSystemPrompt() string {
	return MustGet(reviewFile, "analysis-system")
}

// CritiqueSystemPrompt is the system prompt for free-form critiques.
func CritiqueSystemPrompt() string {
	return MustGet(reviewFile, "critique-system")
}

// BuildAnalysisPrompt fills the rubric for analysisType with the repository
// code. Unknown types fall back to the code quality rubric.
func BuildAnalysisPrompt(analysisType AnalysisType, repo, code string) string {
	if !analysisType.Valid() {
		analysisType = AnalysisCodeQuality
	}
	return Format(MustGet(reviewFile, string(analysisType)), map[string]string{
		"Repo": repo,
		"Code": code,
	})
}

// BuildCritiquePrompt appends the code context (when present) and a grounding
// note to a caller-supplied critique prompt.
func BuildCritiquePrompt(critique, codeContext string) string {
	note := MustGet(reviewFile, "note-without-code")
	ctx := ""
	if codeContext != "" {
		note = MustGet(reviewFile, "note-with-code")
		ctx = Format(MustGet(reviewFile, "code-context"), map[string]string{"Files": codeContext})
	}
	return Format(MustGet(reviewFile, "critique-with-code"), map[string]string{
		"Prompt":      critique,
		"CodeContext": ctx,
		"Note":        note,
	})
}

// BuildCrossValidationPrompt asks a second model to check a first model's analysis.
func BuildCrossValidationPrompt(repo, analysis, codeContext string) string {
	return Format(MustGet(reviewFile, "cross-validation"), map[string]string{
		"Repo":        repo,
		"Analysis":    analysis,
		"CodeContext": codeContext,
	})
}
