package validation

import (
	"strconv"
	"strings"
	"unicode"
)

// Difficulty bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// ParseDifficulty reads a leading integer from text and reports whether it
// lies in [MinDifficulty, MaxDifficulty]. Surrounding whitespace and any
// trailing characters after the digits are ignored, so "7 please" yields 7.
func ParseDifficulty(text string) (int, bool) {
	n, ok := leadingInt(strings.TrimLeftFunc(text, unicode.IsSpace))
	if !ok || n < MinDifficulty || n > MaxDifficulty {
		return 0, false
	}
	return n, true
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// overflow: far outside any valid range
		return 0, false
	}
	return n, true
}

// DifficultyBand names the seniority band of a difficulty level.
func DifficultyBand(difficulty int) string {
	switch {
	case difficulty <= 3:
		return "junior"
	case difficulty <= 6:
		return "mid"
	default:
		return "senior"
	}
}
