package prompts

import (
	"strconv"
	"strings"
)

const practiceFile = "practice.json"

// InterviewType is the category of a single practice question.
type InterviewType string

// Interview types
const (
	InterviewTechnical    InterviewType = "technical"
	InterviewBehavioral   InterviewType = "behavioral"
	InterviewIndustry     InterviewType = "industry"
	InterviewSystemDesign InterviewType = "system-design"
	InterviewCoding       InterviewType = "coding"
	InterviewLeadership   InterviewType = "leadership"
	InterviewCulturalFit  InterviewType = "cultural-fit"
)

// PracticeQuestionSystemPrompt is the system prompt for single question generation.
func PracticeQuestionSystemPrompt() string {
	return MustGet(practiceFile, "question-system")
}

// EvaluationSystemPrompt is the system prompt for answer evaluation.
func EvaluationSystemPrompt() string {
	return MustGet(practiceFile, "evaluation-system")
}

// DifficultyGuideline describes how hard a question at level should be.
func DifficultyGuideline(level int) string {
	switch {
	case level <= 3:
		return MustGet(practiceFile, "guideline-entry")
	case level <= 6:
		return MustGet(practiceFile, "guideline-mid")
	case level <= 8:
		return MustGet(practiceFile, "guideline-advanced")
	default:
		return MustGet(practiceFile, "guideline-expert")
	}
}

func typeFocus(t InterviewType) string {
	focus, err := Get(practiceFile, "focus-"+string(t))
	if err != nil {
		return ""
	}
	return focus
}

// PracticeQuestionInput holds the already sanitized fields of a question request.
type PracticeQuestionInput struct {
	JobRole        string
	InterviewType  InterviewType
	Difficulty     int
	JobDescription string
}

// BuildPracticeQuestionPrompt builds the user prompt for one practice question.
func BuildPracticeQuestionPrompt(in PracticeQuestionInput) string {
	jobDescription := ""
	if strings.TrimSpace(in.JobDescription) != "" {
		jobDescription = Format(MustGet(practiceFile, "job-description-context"), map[string]string{
			"JobDescription": in.JobDescription,
		})
	}

	var hints []string
	if in.Difficulty <= 3 {
		hints = append(hints, MustGet(practiceFile, "hint-short"))
	}
	if in.Difficulty >= 8 {
		hints = append(hints, MustGet(practiceFile, "hint-scenario"))
	}

	return Format(MustGet(practiceFile, "question"), map[string]string{
		"InterviewType":  string(in.InterviewType),
		"Role":           in.JobRole,
		"Difficulty":     strconv.Itoa(in.Difficulty),
		"Guideline":      DifficultyGuideline(in.Difficulty),
		"JobDescription": jobDescription,
		"LengthHint":     strings.Join(hints, "\n"),
		"TypeFocus":      typeFocus(in.InterviewType),
	})
}

// EvaluationInput holds the fields of an answer evaluation request.
type EvaluationInput struct {
	Question      string
	Answer        string
	JobRole       string
	InterviewType InterviewType
	Difficulty    int
}

// BuildEvaluationPrompt builds the user prompt asking for a scored evaluation.
func BuildEvaluationPrompt(in EvaluationInput) string {
	assessment := ""
	switch in.InterviewType {
	case InterviewBehavioral:
		assessment = MustGet(practiceFile, "assessment-behavioral")
	case InterviewTechnical:
		assessment = MustGet(practiceFile, "assessment-technical")
	}

	return Format(MustGet(practiceFile, "evaluation"), map[string]string{
		"Question":       in.Question,
		"Answer":         in.Answer,
		"Role":           in.JobRole,
		"InterviewType":  string(in.InterviewType),
		"Difficulty":     strconv.Itoa(in.Difficulty),
		"TypeAssessment": assessment,
	})
}
