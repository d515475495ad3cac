package prompts

import (
	"strconv"
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
	"github.com/jonathan/interview-coach/internal/validation"
)

const interviewFile = "interview.json"

// SystemPrompt returns the technical interviewer system prompt shared by every
// interview generation call.
func SystemPrompt() string {
	return MustGet(interviewFile, "technical-interviewer-system")
}

// RoleContext combines a job role with an optional AI specialization,
// e.g. "AI Engineer (LLM Engineering)".
func RoleContext(jobRole, specialization string) string {
	if specialization == "" {
		return jobRole
	}
	return jobRole + " (" + specialization + ")"
}

// specializationKey picks the focus-area branch for a role context.
func specializationKey(roleContext string) string {
	switch {
	case strings.Contains(roleContext, types.SpecializationLLM):
		return "llm-engineering"
	case strings.Contains(roleContext, types.SpecializationML):
		return "ml-engineering"
	case strings.Contains(roleContext, types.SpecializationGeneralAI):
		return "general-ai"
	default:
		return "software-engineering"
	}
}

// BuildQuestionPrompt builds the prompt for interview question questionNumber.
// previousContext is optional and omitted when empty.
func BuildQuestionPrompt(roleContext string, difficulty, questionNumber int, previousContext string) string {
	branch := specializationKey(roleContext)

	previous := ""
	if previousContext != "" {
		previous = Format(MustGet(interviewFile, "previous-context"), map[string]string{
			"Context": previousContext,
		})
	}

	return Format(MustGet(interviewFile, "technical-question"), map[string]string{
		"Role":            roleContext,
		"Difficulty":      strconv.Itoa(difficulty),
		"Band":            validation.DifficultyBand(difficulty),
		"QuestionNumber":  strconv.Itoa(questionNumber),
		"Total":           strconv.Itoa(types.MaxQuestions),
		"FocusAreas":      MustGet(interviewFile, "focus-"+branch),
		"Examples":        MustGet(interviewFile, "examples-"+branch),
		"PreviousContext": previous,
	})
}

// BuildFeedbackPrompt builds the prompt asking for 2-3 sentences of feedback on an answer.
func BuildFeedbackPrompt(answer string, difficulty int) string {
	return Format(MustGet(interviewFile, "feedback"), map[string]string{
		"Answer":     answer,
		"Difficulty": strconv.Itoa(difficulty),
	})
}

// BuildIdealAnswerPrompt builds the prompt for an expert answer to question.
func BuildIdealAnswerPrompt(roleContext string, difficulty int, question string) string {
	return Format(MustGet(interviewFile, "ideal-answer"), map[string]string{
		"Role":       roleContext,
		"Difficulty": strconv.Itoa(difficulty),
		"Question":   question,
	})
}

// BuildFinalAssessmentPrompt builds the prompt for the closing summary.
func BuildFinalAssessmentPrompt(name string) string {
	return Format(MustGet(interviewFile, "final-assessment"), map[string]string{
		"Name":  name,
		"Total": strconv.Itoa(types.MaxQuestions),
	})
}
