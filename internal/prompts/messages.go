package prompts

import (
	"strconv"

	"github.com/jonathan/interview-coach/internal/types"
)

const conversationFile = "conversation.json"

func message(key string, data map[string]string) string {
	return Format(MustGet(conversationFile, key), data)
}

// Greeting is the first assistant message of every conversation.
func Greeting() string {
	return MustGet(conversationFile, "greeting")
}

// AskJobRole greets the candidate by name and asks for a technical role.
func AskJobRole(name string) string {
	return message("ask-job-role", map[string]string{"Name": name})
}

// AskJobDescription offers to focus the interview; role may include a specialization.
func AskJobDescription(role string) string {
	return message("ask-job-description", map[string]string{"Role": role})
}

// AskDifficulty lists the difficulty bands and asks for a level.
func AskDifficulty() string {
	return MustGet(conversationFile, "ask-difficulty")
}

// StartInterview opens the interview. It ends with the "Question 1 of 5" header.
func StartInterview(role string, difficulty int) string {
	return message("start-interview", map[string]string{
		"Role":       role,
		"Difficulty": strconv.Itoa(difficulty),
		"Total":      strconv.Itoa(types.MaxQuestions),
	})
}

// QuestionHeader labels question n in an interviewing reply.
func QuestionHeader(n int) string {
	return "**Question " + strconv.Itoa(n) + " of " + strconv.Itoa(types.MaxQuestions) + ":**"
}

// IdealAnswerHeader labels the ideal answer in an interviewing reply.
const IdealAnswerHeader = "**Ideal Answer:**"

// FinalAssessmentHeader thanks the candidate and introduces the final assessment.
func FinalAssessmentHeader(name string) string {
	return message("final-assessment-header", map[string]string{"Name": name})
}

// AskAISpecialization asks an AI engineering candidate to pick a focus area.
func AskAISpecialization(name string) string {
	return message("ask-ai-specialization", map[string]string{"Name": name})
}

// SpecializationRetry re-prompts after an invalid specialization choice.
func SpecializationRetry() string {
	return MustGet(conversationFile, "specialization-retry")
}

// InvalidRole explains that role is not a supported technical role.
func InvalidRole(name, role string) string {
	return message("invalid-role", map[string]string{"Name": name, "Role": role})
}

// InappropriateWarning warns the candidate. count is the updated inappropriate
// response count; any count other than 1 produces the final warning.
func InappropriateWarning(name string, count int) string {
	key := "inappropriate-final-warning"
	if count == 1 {
		key = "inappropriate-first-warning"
	}
	return message(key, map[string]string{"Name": name})
}

// InterviewEnded closes an interview terminated for unprofessional responses.
func InterviewEnded(name string) string {
	return message("interview-ended", map[string]string{"Name": name})
}

// InterviewComplete answers any message sent after the interview has finished.
func InterviewComplete(name string) string {
	return message("interview-complete", map[string]string{"Name": name})
}

// InvalidDifficulty re-prompts for a difficulty between 1 and 10.
func InvalidDifficulty() string {
	return MustGet(conversationFile, "invalid-difficulty")
}

// StartOver is sent when the conversation is reset from an unknown stage.
func StartOver() string {
	return MustGet(conversationFile, "start-over")
}

// ProfessionalismRemark replaces the generated assessment when the candidate
// finished the interview after an inappropriate response.
func ProfessionalismRemark() string {
	return MustGet(conversationFile, "professionalism-remark")
}

// TransportError is shown when a chat turn could not reach the engine.
func TransportError() string {
	return MustGet(conversationFile, "transport-error")
}
