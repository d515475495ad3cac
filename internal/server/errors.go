// Package server provides the HTTP API for the interview coach.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/interview-coach/internal/fetch"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/practice"
	"github.com/jonathan/interview-coach/internal/review"
)

// Error codes carried in {success:false, error:{code, message}} bodies.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
	CodeNotFound    = "NOT_FOUND"
	CodeGeneration  = "GENERATION_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
	Details []string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrRateLimited indicates the client exhausted its request budget
type ErrRateLimited struct {
	ResetTime time.Time
}

func (e *ErrRateLimited) Error() string {
	return "Too many requests. Please try again later."
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrGeneration indicates the LLM provider failed to produce a result
type ErrGeneration struct {
	Message string
	Cause   error
}

func (e *ErrGeneration) Error() string {
	return e.Message
}

func (e *ErrGeneration) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch classify(err).(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrRateLimited:
		return http.StatusTooManyRequests
	case *ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the API error code for an error.
func ErrorCode(err error) string {
	switch classify(err).(type) {
	case *ErrValidation:
		return CodeValidation
	case *ErrRateLimited:
		return CodeRateLimited
	case *ErrNotFound:
		return CodeNotFound
	case *ErrGeneration:
		return CodeGeneration
	default:
		return CodeInternal
	}
}

// classify maps domain errors onto the server error types. Errors that are
// already server errors pass through; anything unknown is returned unchanged.
func classify(err error) error {
	var (
		valErr   *ErrValidation
		rateErr  *ErrRateLimited
		notFound *ErrNotFound
		genErr   *ErrGeneration
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &valErr):
		return valErr
	case errors.As(err, &rateErr):
		return rateErr
	case errors.As(err, &notFound):
		return notFound
	case errors.As(err, &genErr):
		return genErr
	}

	var (
		inputErr         *practice.InputError
		practiceGenErr   *practice.GenerationError
		reviewGenErr     *review.GenerationError
		fetchErr         *fetch.Error
		providerNotKnown = errors.Is(err, llm.ErrProviderUnavailable)
	)
	switch {
	case errors.As(err, &inputErr):
		return &ErrValidation{Field: inputErr.Field, Message: inputErr.Reason}
	case errors.Is(err, fetch.ErrInvalidRepoURL):
		return &ErrValidation{Field: "repoUrl", Message: "Invalid GitHub URL. Use format: https://github.com/username/repository"}
	case providerNotKnown:
		return &ErrValidation{Field: "llmSettings.provider", Message: err.Error()}
	case errors.Is(err, review.ErrNoFiles):
		return &ErrNotFound{Resource: "Repository files"}
	case errors.As(err, &practiceGenErr):
		return &ErrGeneration{Message: practiceGenErr.Error(), Cause: err}
	case errors.As(err, &reviewGenErr):
		return &ErrGeneration{Message: reviewGenErr.Error(), Cause: err}
	case errors.As(err, &fetchErr):
		return &ErrGeneration{Message: "failed to fetch repository", Cause: err}
	}
	return err
}

// publicMessage is the message shown to API clients.
func publicMessage(err error) string {
	c := classify(err)
	switch c.(type) {
	case *ErrValidation, *ErrRateLimited, *ErrNotFound, *ErrGeneration:
		return c.Error()
	default:
		return "An unexpected error occurred"
	}
}
