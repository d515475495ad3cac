package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/interview-coach/internal/types"
)

// questionPreviewLength caps the question echoed in evaluation metadata.
const questionPreviewLength = 100

// handleQuestion generates one practice question.
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	if s.practice == nil {
		unavailable(w, r, "Question generation")
		return
	}

	var req types.PracticeQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		errorResponse(w, r, requestValidationError(err))
		return
	}

	q, err := s.practice.Question(r.Context(), req)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	jsonResponse(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"question": q.Text,
		"usage":    q.Usage,
		"metadata": map[string]any{
			"jobRole":            req.JobRole,
			"interviewType":      req.InterviewType,
			"difficulty":         req.Difficulty,
			"provider":           q.Provider,
			"model":              q.Model,
			"timestamp":          q.Timestamp.Format(time.RFC3339),
			"rateLimitRemaining": remainingFromHeader(w),
		},
	})
}

// handleEvaluate scores an answer to a practice question.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if s.practice == nil {
		unavailable(w, r, "Answer evaluation")
		return
	}

	var req types.EvaluationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		errorResponse(w, r, requestValidationError(err))
		return
	}

	ev, err := s.practice.Evaluate(r.Context(), req)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	preview := req.Question
	if runes := []rune(preview); len(runes) > questionPreviewLength {
		preview = string(runes[:questionPreviewLength]) + "..."
	}

	jsonResponse(w, r, http.StatusOK, map[string]any{
		"success":    true,
		"evaluation": ev,
		"usage":      ev.Usage,
		"metadata": map[string]any{
			"question":      preview,
			"answerLength":  len([]rune(req.Answer)),
			"jobRole":       req.JobRole,
			"interviewType": req.InterviewType,
			"difficulty":    req.Difficulty,
			"provider":      ev.Provider,
			"model":         ev.Model,
		},
	})
}

func (s *Server) handleQuestionStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"status":    "Interview API is running!",
		"security":  "Input validation and rate limiting enabled",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleEvaluateStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"status": "Evaluation API is running!",
		"features": []string{
			"OpenAI evaluation support",
			"Claude evaluation support",
			"Gemini evaluation support",
			"Token usage tracking",
			"Multiple model support",
		},
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// requestValidationError wraps validator failures for errorResponse.
func requestValidationError(err error) *ErrValidation {
	details := types.ValidationMessages(err)
	msg := "Invalid request"
	if len(details) > 0 {
		msg = details[0]
	}
	return &ErrValidation{Message: msg, Details: details}
}

// remainingFromHeader reads back the X-RateLimit-Remaining header set by the
// rate limit middleware; -1 when the route is unlimited.
func remainingFromHeader(w http.ResponseWriter) int {
	n, err := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
	if err != nil {
		return -1
	}
	return n
}
