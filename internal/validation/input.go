package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxInputLength is the longest free-text input accepted for prompt building.
const MaxInputLength = 5000

// Reasons returned by ValidateInput.
const (
	ReasonEmpty        = "Input cannot be empty"
	ReasonTooLong      = "Input too long (max 5000 characters)"
	ReasonHarmful      = "Input contains potentially harmful content"
	ReasonSpecialChars = "Input contains too many special characters"
)

var suspiciousPatterns = []*regexp.Regexp{
	// prompt manipulation
	regexp.MustCompile(`(?i)ignore\s+previous`),
	regexp.MustCompile(`(?i)ignore\s+all\s+previous`),
	regexp.MustCompile(`(?i)system\s+prompt`),
	regexp.MustCompile(`(?i)act\s+as`),
	regexp.MustCompile(`(?i)pretend\s+to\s+be`),
	regexp.MustCompile(`(?i)role\s*:\s*system`),

	// reset and bypass
	regexp.MustCompile(`(?i)reset\s+all`),
	regexp.MustCompile(`(?i)bypass\s+security`),
	regexp.MustCompile(`(?i)override\s+instructions`),
	regexp.MustCompile(`(?i)forget\s+everything`),
	regexp.MustCompile(`(?i)new\s+instructions`),

	// instruction markers
	regexp.MustCompile(`(?i)\[INST\]`),
	regexp.MustCompile(`(?i)\[/INST\]`),
	regexp.MustCompile(`<\|.*?\|>`),
	regexp.MustCompile(`(?i)###\s*instruction`),

	// persona changes
	regexp.MustCompile(`(?i)as\s+an\s+ai`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)from\s+now\s+on`),
	regexp.MustCompile(`(?i)change\s+your\s+role`),

	// code injection
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)function\s*\(`),
}

var (
	specialCharPattern  = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?\-]`)
	crlfPattern         = regexp.MustCompile(`\r\n`)
	extraNewlinePattern = regexp.MustCompile(`\n{3,}`)
	unsafeCharPattern   = regexp.MustCompile(`[^\w\s.,!?\-()\[\]]`)
)

// InputCheck is the outcome of ValidateInput.
type InputCheck struct {
	Valid  bool
	Reason string
}

// ValidateInput screens free text before it is placed into a prompt.
func ValidateInput(input string) InputCheck {
	if strings.TrimSpace(input) == "" {
		return InputCheck{Reason: ReasonEmpty}
	}
	length := utf8.RuneCountInString(input)
	if length > MaxInputLength {
		return InputCheck{Reason: ReasonTooLong}
	}
	for _, p := range suspiciousPatterns {
		if p.MatchString(input) {
			return InputCheck{Reason: ReasonHarmful}
		}
	}
	special := len(specialCharPattern.FindAllString(input, -1))
	if float64(special)/float64(length) > 0.3 {
		return InputCheck{Reason: ReasonSpecialChars}
	}
	return InputCheck{Valid: true}
}

// SanitizeForAI trims text, normalizes line endings, collapses long runs of
// blank lines, strips characters outside a conservative set, and caps the length.
func SanitizeForAI(input string) string {
	out := strings.TrimSpace(input)
	out = crlfPattern.ReplaceAllString(out, "\n")
	out = extraNewlinePattern.ReplaceAllString(out, "\n\n")
	out = unsafeCharPattern.ReplaceAllString(out, "")
	if utf8.RuneCountInString(out) > MaxInputLength {
		out = string([]rune(out)[:MaxInputLength])
	}
	return out
}
