package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

const chatErrorMessage = "Failed to process message"

// handleChat runs one conversation turn. Bodies that are not valid JSON or do
// not match the chat request schema are rejected with 400; unknown stages are
// left to the engine, which resets the conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		chatError(w, r, http.StatusBadRequest, []string{err.Error()})
		return
	}

	if err := schemas.ValidateChatRequest(body); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			chatError(w, r, http.StatusBadRequest, verr.Details())
			return
		}
		observability.LoggerFromContext(r.Context()).Error("chat schema unavailable", "error", err)
		chatError(w, r, http.StatusInternalServerError, nil)
		return
	}

	var req types.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		chatError(w, r, http.StatusBadRequest, []string{err.Error()})
		return
	}

	// A client disconnect must not cut a transition short.
	ctx := context.WithoutCancel(r.Context())
	jsonResponse(w, r, http.StatusOK, s.engine.Transition(ctx, req))
}

func chatError(w http.ResponseWriter, r *http.Request, status int, details []string) {
	body := map[string]any{"error": chatErrorMessage}
	if len(details) > 0 {
		body["details"] = details
	}
	jsonResponse(w, r, status, body)
}

func (s *Server) handleChatStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"status":       "Chat API is running!",
		"maxQuestions": types.MaxQuestions,
		"timestamp":    s.now().UTC().Format(time.RFC3339),
	})
}
