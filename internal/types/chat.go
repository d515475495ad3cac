// Package types provides type definitions for structured data used throughout the interview coach.
package types

import (
	"encoding/json"
	"time"
)

// MaxQuestions is the fixed number of technical questions in one interview.
const MaxQuestions = 5

// Stage is a named state in the interview state machine.
type Stage string

// Stage constants. StageName is accepted as a synonym of StageGreeting.
const (
	StageGreeting         Stage = "greeting"
	StageName             Stage = "name"
	StageJob              Stage = "job"
	StageAISpecialization Stage = "ai_specialization"
	StageJobDescription   Stage = "job_description"
	StageDifficulty       Stage = "difficulty"
	StageInterviewing     Stage = "interviewing"
	StageComplete         Stage = "complete"

	// StageUnknown stands in for any value outside the enumeration, e.g. state
	// written by a different client version.
	StageUnknown Stage = "unknown"
)

var knownStages = map[Stage]bool{
	StageGreeting:         true,
	StageName:             true,
	StageJob:              true,
	StageAISpecialization: true,
	StageJobDescription:   true,
	StageDifficulty:       true,
	StageInterviewing:     true,
	StageComplete:         true,
}

// ParseStage maps a raw string onto the enumeration. Unrecognized values
// become StageUnknown rather than an error.
func ParseStage(s string) Stage {
	if st := Stage(s); knownStages[st] {
		return st
	}
	return StageUnknown
}

// Known reports whether s is one of the enumerated stages.
func (s Stage) Known() bool {
	return knownStages[s]
}

// UnmarshalJSON decodes any JSON string; values outside the enumeration decode to StageUnknown.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStage(raw)
	return nil
}

// UserData is the candidate profile accumulated across the conversation.
// Optional fields are pointers so that "absent" and "empty" stay distinct on the wire.
type UserData struct {
	Name                       *string `json:"name,omitempty"`
	JobRole                    *string `json:"jobRole,omitempty"`
	AISpecialization           *string `json:"aiSpecialization,omitempty"`
	JobDescription             *string `json:"jobDescription,omitempty"`
	Difficulty                 *int    `json:"difficulty,omitempty"`
	CurrentQuestion            *string `json:"currentQuestion,omitempty"`
	InappropriateResponseCount int     `json:"inappropriateResponseCount,omitempty"`
}

// Clone returns a deep copy of the profile.
func (u UserData) Clone() UserData {
	return UserData{
		Name:                       clonePtr(u.Name),
		JobRole:                    clonePtr(u.JobRole),
		AISpecialization:           clonePtr(u.AISpecialization),
		JobDescription:             clonePtr(u.JobDescription),
		Difficulty:                 clonePtr(u.Difficulty),
		CurrentQuestion:            clonePtr(u.CurrentQuestion),
		InappropriateResponseCount: u.InappropriateResponseCount,
	}
}

// IsEmpty reports whether no field has been set.
func (u UserData) IsEmpty() bool {
	return u.Name == nil && u.JobRole == nil && u.AISpecialization == nil &&
		u.JobDescription == nil && u.Difficulty == nil && u.CurrentQuestion == nil &&
		u.InappropriateResponseCount == 0
}

// AI specializations offered for AI engineering roles.
const (
	SpecializationLLM       = "LLM Engineering"
	SpecializationML        = "ML Engineering"
	SpecializationGeneralAI = "General AI"
)

// SpecializationChoices maps the menu option typed by the candidate to a specialization.
var SpecializationChoices = map[string]string{
	"1": SpecializationLLM,
	"2": SpecializationML,
	"3": SpecializationGeneralAI,
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, returning the zero value for nil.
func Value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Role identifies the author of a chat message.
type Role string

// Role constants
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the append-only transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the aggregate owned by the session store.
type ConversationState struct {
	Stage                Stage         `json:"stage"`
	UserData             UserData      `json:"userData"`
	Messages             []ChatMessage `json:"messages"`
	CurrentQuestionCount int           `json:"currentQuestionCount"`
	MaxQuestions         int           `json:"maxQuestions"`
	IsLoading            bool          `json:"isLoading"`
}

// InitialState returns the state of a freshly started (or reset) session.
func InitialState() ConversationState {
	return ConversationState{
		Stage:                StageGreeting,
		UserData:             UserData{},
		Messages:             []ChatMessage{},
		CurrentQuestionCount: 0,
		MaxQuestions:         MaxQuestions,
		IsLoading:            false,
	}
}

// Clone returns a deep copy of the state.
func (s ConversationState) Clone() ConversationState {
	out := s
	out.UserData = s.UserData.Clone()
	out.Messages = append([]ChatMessage(nil), s.Messages...)
	if out.Messages == nil {
		out.Messages = []ChatMessage{}
	}
	return out
}

// ChatRequest is the engine input for one user turn.
type ChatRequest struct {
	Message       string   `json:"message"`
	Stage         Stage    `json:"stage"`
	UserData      UserData `json:"userData"`
	QuestionCount int      `json:"questionCount"`
}

// ChatResponse is the engine output for one user turn.
type ChatResponse struct {
	Message       string   `json:"message"`
	Stage         Stage    `json:"stage"`
	UserData      UserData `json:"userData"`
	QuestionCount int      `json:"questionCount"`
	IsComplete    bool     `json:"isComplete"`
}
