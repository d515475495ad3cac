package validation

import (
	"regexp"
	"strings"
)

var (
	profanityPattern    = regexp.MustCompile(`(?i)\b(fuck|shit|bitch|dick|ass|damn|hell)\b`)
	keyboardMashPattern = regexp.MustCompile(`^[a-zA-Z]{10,}$`)
	letterPattern       = regexp.MustCompile(`[a-zA-Z]`)
)

// IsAppropriateResponse is a heuristic check that an interview answer is
// usable. It rejects profanity, a single unbroken run of ten or more letters,
// blank input, and input without any ASCII letter. It will misjudge some
// inputs in both directions.
func IsAppropriateResponse(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if profanityPattern.MatchString(trimmed) {
		return false
	}
	if keyboardMashPattern.MatchString(trimmed) {
		return false
	}
	return letterPattern.MatchString(trimmed)
}
