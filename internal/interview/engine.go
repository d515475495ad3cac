package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
	"github.com/jonathan/interview-coach/internal/validation"
)

// maxInappropriateResponses ends the interview once reached.
const maxInappropriateResponses = 2

// unknownQuestion stands in for the question text when none was stored.
const unknownQuestion = "the previous question"

// Engine is the interview state machine. It holds no per-session state;
// everything it needs arrives in the request.
type Engine struct {
	gen *Generator
}

// NewEngine creates an Engine that generates content with gen.
func NewEngine(gen *Generator) *Engine {
	return &Engine{gen: gen}
}

// turn accumulates the outcome of one transition.
type turn struct {
	resp  types.ChatResponse
	usage *types.TokenUsage
}

func (t *turn) track(g Generation) string {
	t.usage = t.usage.Add(g.Usage)
	return g.Text
}

// Transition computes the reply and next state for one user message. The
// request is never modified. LLM calls run one after another and the reply
// is returned only after all of them finish.
func (e *Engine) Transition(ctx context.Context, req types.ChatRequest) types.ChatResponse {
	t := &turn{resp: types.ChatResponse{
		Stage:         req.Stage,
		UserData:      req.UserData.Clone(),
		QuestionCount: req.QuestionCount,
	}}

	switch req.Stage {
	case types.StageGreeting, types.StageName:
		e.handleName(t, req.Message)
	case types.StageJob:
		e.handleJob(t, req.Message)
	case types.StageAISpecialization:
		e.handleSpecialization(t, req.Message)
	case types.StageJobDescription:
		e.handleJobDescription(t, req.Message)
	case types.StageDifficulty:
		e.handleDifficulty(ctx, t, req.Message)
	case types.StageInterviewing:
		e.handleInterviewing(ctx, t, req.Message)
	case types.StageComplete:
		t.resp.Message = prompts.InterviewComplete(types.Value(t.resp.UserData.Name))
		t.resp.IsComplete = true
	default:
		t.resp = types.ChatResponse{
			Message:       prompts.StartOver(),
			Stage:         types.StageGreeting,
			UserData:      types.UserData{},
			QuestionCount: 0,
		}
	}

	log := observability.LoggerFromContext(ctx)
	attrs := []any{
		"from", req.Stage,
		"to", t.resp.Stage,
		"question_count", t.resp.QuestionCount,
		"complete", t.resp.IsComplete,
	}
	if t.usage != nil {
		attrs = append(attrs, "total_tokens", t.usage.TotalTokens)
	}
	log.Info("conversation transition", attrs...)

	return t.resp
}

func (e *Engine) handleName(t *turn, msg string) {
	t.resp.UserData.Name = types.Ptr(msg)
	t.resp.Stage = types.StageJob
	t.resp.Message = prompts.AskJobRole(msg)
}

func (e *Engine) handleJob(t *turn, msg string) {
	name := types.Value(t.resp.UserData.Name)

	if !validation.IsValidTechnicalRole(msg) {
		t.resp.Message = prompts.InvalidRole(name, msg)
		return
	}

	t.resp.UserData.JobRole = types.Ptr(msg)
	if validation.IsAIRole(msg) {
		t.resp.Stage = types.StageAISpecialization
		t.resp.Message = prompts.AskAISpecialization(name)
		return
	}
	t.resp.Stage = types.StageJobDescription
	t.resp.Message = prompts.AskJobDescription(msg)
}

func (e *Engine) handleSpecialization(t *turn, msg string) {
	spec, ok := types.SpecializationChoices[strings.TrimSpace(msg)]
	if !ok {
		t.resp.Message = prompts.SpecializationRetry()
		return
	}

	t.resp.UserData.AISpecialization = types.Ptr(spec)
	t.resp.Stage = types.StageJobDescription
	t.resp.Message = prompts.AskJobDescription(prompts.RoleContext(types.Value(t.resp.UserData.JobRole), spec))
}

func (e *Engine) handleJobDescription(t *turn, msg string) {
	if strings.ToLower(msg) == "skip" {
		t.resp.UserData.JobDescription = nil
	} else {
		t.resp.UserData.JobDescription = types.Ptr(msg)
	}
	t.resp.Stage = types.StageDifficulty
	t.resp.Message = prompts.AskDifficulty()
}

func (e *Engine) handleDifficulty(ctx context.Context, t *turn, msg string) {
	difficulty, ok := validation.ParseDifficulty(msg)
	if !ok {
		t.resp.Message = prompts.InvalidDifficulty()
		return
	}

	ud := &t.resp.UserData
	jobRole := types.Value(ud.JobRole)
	roleContext := prompts.RoleContext(jobRole, types.Value(ud.AISpecialization))

	question := t.track(e.gen.Question(ctx, roleContext, difficulty, 1, ""))

	ud.Difficulty = types.Ptr(difficulty)
	ud.CurrentQuestion = types.Ptr(question)
	t.resp.Stage = types.StageInterviewing
	t.resp.QuestionCount = 1
	t.resp.Message = prompts.StartInterview(jobRole, difficulty) + "\n\n" + question
}

func (e *Engine) handleInterviewing(ctx context.Context, t *turn, msg string) {
	ud := &t.resp.UserData

	if !validation.IsAppropriateResponse(msg) {
		count := ud.InappropriateResponseCount + 1
		ud.InappropriateResponseCount = count
		name := types.Value(ud.Name)

		if count >= maxInappropriateResponses {
			t.resp.Stage = types.StageComplete
			t.resp.IsComplete = true
			t.resp.Message = prompts.InterviewEnded(name)
			return
		}
		t.resp.Message = prompts.InappropriateWarning(name, count)
		return
	}

	e.handleAnswer(ctx, t, msg)
}

// handleAnswer produces feedback, the ideal answer for the stored question,
// and then either the next question or the final assessment.
func (e *Engine) handleAnswer(ctx context.Context, t *turn, answer string) {
	ud := &t.resp.UserData
	difficulty := types.Value(ud.Difficulty)
	roleContext := prompts.RoleContext(types.Value(ud.JobRole), types.Value(ud.AISpecialization))

	question := types.Value(ud.CurrentQuestion)
	if question == "" {
		question = unknownQuestion
	}

	feedback := t.track(e.gen.Feedback(ctx, answer, difficulty))
	ideal := t.track(e.gen.IdealAnswer(ctx, roleContext, difficulty, question))
	head := feedback + "\n\n" + prompts.IdealAnswerHeader + "\n" + ideal + "\n\n"

	if t.resp.QuestionCount >= types.MaxQuestions {
		t.resp.Stage = types.StageComplete
		t.resp.IsComplete = true
		t.resp.Message = head + e.finalAssessment(ctx, t)
		return
	}

	next := t.resp.QuestionCount + 1
	previous := ""
	if ud.CurrentQuestion != nil && *ud.CurrentQuestion != "" {
		previous = fmt.Sprintf("question %d was %q", t.resp.QuestionCount, *ud.CurrentQuestion)
	}
	nextQuestion := t.track(e.gen.Question(ctx, roleContext, difficulty, next, previous))

	ud.CurrentQuestion = types.Ptr(nextQuestion)
	t.resp.QuestionCount = next
	t.resp.Message = head + prompts.QuestionHeader(next) + "\n" + nextQuestion
}

// finalAssessment applies the closing policy: a terminated interview gets the
// ended notice, an interview with any inappropriate answer gets a fixed
// professionalism remark, and only a clean interview gets a generated summary.
func (e *Engine) finalAssessment(ctx context.Context, t *turn) string {
	ud := t.resp.UserData
	name := types.Value(ud.Name)

	switch count := ud.InappropriateResponseCount; {
	case count >= maxInappropriateResponses:
		return prompts.InterviewEnded(name)
	case count > 0:
		return prompts.FinalAssessmentHeader(name) + "\n\n" + prompts.ProfessionalismRemark()
	default:
		return prompts.FinalAssessmentHeader(name) + "\n\n" + t.track(e.gen.FinalAssessment(ctx, name))
	}
}
