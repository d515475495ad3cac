// Package observability provides structured logging and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// wrapWidth is the column at which chat messages are wrapped
	wrapWidth = 78
)

// Printer handles formatted output for the interactive CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		// Truncate long lines
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMessage outputs one transcript entry, wrapped to the terminal width.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMessage(msg types.ChatMessage) {
	label := "Coach"
	if msg.Role == types.RoleUser {
		label = "You"
	}
	fmt.Fprintf(p.out, "%s:\n", label)
	for _, line := range wrap(msg.Content, wrapWidth-2) {
		fmt.Fprintf(p.out, "  %s\n", line)
	}
	fmt.Fprintln(p.out)
}

// PrintProfile outputs the candidate profile and interview progress.
func (p *Printer) PrintProfile(state types.ConversationState) {
	ud := state.UserData
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Stage:       %s\n", state.Stage))
	if ud.Name != nil {
		sb.WriteString(fmt.Sprintf("Name:        %s\n", *ud.Name))
	}
	if ud.JobRole != nil {
		role := *ud.JobRole
		if ud.AISpecialization != nil {
			role = fmt.Sprintf("%s (%s)", role, *ud.AISpecialization)
		}
		sb.WriteString(fmt.Sprintf("Role:        %s\n", role))
	}
	if ud.JobDescription != nil {
		sb.WriteString(fmt.Sprintf("Job desc:    %d chars\n", utf8.RuneCountInString(*ud.JobDescription)))
	}
	if ud.Difficulty != nil {
		sb.WriteString(fmt.Sprintf("Difficulty:  %d/10\n", *ud.Difficulty))
	}
	sb.WriteString(fmt.Sprintf("Questions:   %d/%d\n", state.CurrentQuestionCount, state.MaxQuestions))
	if ud.InappropriateResponseCount > 0 {
		sb.WriteString(fmt.Sprintf("Warnings:    %d\n", ud.InappropriateResponseCount))
	}

	p.printBox("INTERVIEW SESSION", sb.String())
}

// ReviewSummary is the printable header of a repository review.
type ReviewSummary struct {
	Title         string
	Repo          string
	Provider      string
	Model         string
	Score         *int
	FilesAnalyzed int
	Usage         *types.TokenUsage

	// Cross-validation, when present
	ValidatorProvider string
	ValidatorScore    *int
}

// PrintReview outputs a summary box followed by the full review text.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintReview(summary ReviewSummary, text string) {
	var sb strings.Builder

	if summary.Repo != "" {
		sb.WriteString(fmt.Sprintf("Repository:  %s\n", summary.Repo))
	}
	sb.WriteString(fmt.Sprintf("Provider:    %s (%s)\n", summary.Provider, summary.Model))
	sb.WriteString(fmt.Sprintf("Files:       %d\n", summary.FilesAnalyzed))
	sb.WriteString(fmt.Sprintf("Score:       %s\n", formatScore(summary.Score)))
	if summary.Usage != nil {
		sb.WriteString(fmt.Sprintf("Tokens:      %d in / %d out\n", summary.Usage.InputTokens, summary.Usage.OutputTokens))
	}
	if summary.ValidatorProvider != "" {
		sb.WriteString(fmt.Sprintf("Validator:   %s, score %s\n", summary.ValidatorProvider, formatScore(summary.ValidatorScore)))
	}

	title := summary.Title
	if title == "" {
		title = "REPOSITORY REVIEW"
	}
	p.printBox(title, sb.String())
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, strings.TrimSpace(text))
}

func formatScore(score *int) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d/10", *score)
}

// wrap breaks text into lines of at most width runes, keeping existing line
// breaks. Words longer than width are left whole.
func wrap(text string, width int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return out
}
