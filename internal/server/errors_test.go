package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/interview-coach/internal/fetch"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/practice"
	"github.com/jonathan/interview-coach/internal/review"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
		code     string
	}{
		{"validation", &ErrValidation{Field: "jobRole", Message: "is required"}, http.StatusBadRequest, CodeValidation},
		{"rate limited", &ErrRateLimited{}, http.StatusTooManyRequests, CodeRateLimited},
		{"not found", &ErrNotFound{Resource: "Report"}, http.StatusNotFound, CodeNotFound},
		{"generation", &ErrGeneration{Message: "failed"}, http.StatusInternalServerError, CodeGeneration},
		{"wrapped validation", fmt.Errorf("ctx: %w", &ErrValidation{Message: "bad"}), http.StatusBadRequest, CodeValidation},
		{"practice input", &practice.InputError{Field: "answer", Reason: "Input cannot be empty"}, http.StatusBadRequest, CodeValidation},
		{"practice generation", &practice.GenerationError{Provider: llm.ProviderGemini, Op: "evaluate answer", Err: errors.New("x")}, http.StatusInternalServerError, CodeGeneration},
		{"review generation", &review.GenerationError{Provider: llm.ProviderOpenAI, Err: errors.New("x")}, http.StatusInternalServerError, CodeGeneration},
		{"no files", review.ErrNoFiles, http.StatusNotFound, CodeNotFound},
		{"invalid repo", fetch.ErrInvalidRepoURL, http.StatusBadRequest, CodeValidation},
		{"provider unavailable", fmt.Errorf("%w: gemini", llm.ErrProviderUnavailable), http.StatusBadRequest, CodeValidation},
		{"fetch failure", &fetch.Error{URL: "https://api.github.com", Message: "status 500"}, http.StatusInternalServerError, CodeGeneration},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "jobRole: is required", (&ErrValidation{Field: "jobRole", Message: "is required"}).Error())
	assert.Equal(t, "bad body", (&ErrValidation{Message: "bad body"}).Error())
	assert.Equal(t, "Report not found", (&ErrNotFound{Resource: "Report"}).Error())
	assert.Equal(t, "An unexpected error occurred", publicMessage(errors.New("secret detail")))
	assert.Equal(t, "answer: Input cannot be empty",
		publicMessage(&practice.InputError{Field: "answer", Reason: "Input cannot be empty"}))
}
