// Package validation provides the input predicates used by the interview conversation.
package validation

import "strings"

// technicalRoles is the reference list that role input is matched against.
var technicalRoles = []string{
	"software engineer", "developer", "programmer",
	"frontend developer", "backend developer", "full stack developer", "fullstack developer",
	"mobile developer", "ios developer", "android developer", "react native developer",
	"devops engineer", "sre", "site reliability engineer", "platform engineer",
	"data engineer", "machine learning engineer", "ml engineer", "ai engineer", "artificial intelligence engineer",
	"qa engineer", "test engineer", "automation engineer",
	"web developer", "software developer", "application developer",
	"javascript developer", "python developer", "java developer", "c++ developer",
	"react developer", "angular developer", "vue developer", "node developer",
	"cloud engineer", "infrastructure engineer", "systems engineer",
	"security engineer", "cybersecurity engineer", "database engineer",
	"llm engineer", "prompt engineer", "ai/ml engineer",
}

var aiRoles = []string{
	"ai engineer",
	"artificial intelligence engineer",
	"ai/ml engineer",
	"machine learning engineer",
}

// TechnicalRoles returns a copy of the reference role list.
func TechnicalRoles() []string {
	return append([]string(nil), technicalRoles...)
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// IsValidTechnicalRole reports whether role loosely matches a reference role.
//
// A match is any of: the input contains a reference role, a reference role
// contains the input, or a single word of the input appears inside a
// reference role. An empty input matches
// because the empty string is contained in every role.
func IsValidTechnicalRole(role string) bool {
	normalized := normalizeRole(role)
	words := strings.Fields(normalized)

	for _, ref := range technicalRoles {
		if strings.Contains(normalized, ref) || strings.Contains(ref, normalized) {
			return true
		}
		for _, word := range words {
			if strings.Contains(ref, word) {
				return true
			}
		}
	}
	return false
}

// IsAIRole reports whether role is an AI engineering role that needs a specialization.
func IsAIRole(role string) bool {
	normalized := normalizeRole(role)

	for _, ref := range aiRoles {
		if strings.Contains(normalized, ref) || strings.Contains(ref, normalized) {
			return true
		}
	}
	return strings.Contains(normalized, "ai ") || strings.Contains(normalized, " ai")
}
