package review

import (
	"regexp"
	"strconv"
)

var overallScorePattern = regexp.MustCompile(`(?i)OVERALL SCORE:\s*(\d+)\s*/\s*10`)

// ParseScore extracts the last "OVERALL SCORE: X/10" from text. Scores
// outside 0..10 are ignored.
func ParseScore(text string) (int, bool) {
	matches := overallScorePattern.FindAllStringSubmatch(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		n, err := strconv.Atoi(matches[i][1])
		if err == nil && n >= 0 && n <= 10 {
			return n, true
		}
	}
	return 0, false
}

func scorePtr(text string) *int {
	if n, ok := ParseScore(text); ok {
		return &n
	}
	return nil
}
