// Package session owns the client-side conversation state and delivers each
// user turn to the conversation engine.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/types"
)

// Transport delivers one chat turn to the engine.
type Transport interface {
	Send(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
}

// StatusError reports a non-2xx answer from the chat endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// HTTPTransport posts chat turns as JSON to a running server.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport creates a transport for the server at baseURL.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &HTTPTransport{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/chat",
		client:   client,
	}
}

// Send posts req to /api/chat and decodes the reply.
func (t *HTTPTransport) Send(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	var out types.ChatResponse

	body, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return out, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return out, nil
}

// EngineTransport calls the engine in-process.
type EngineTransport struct {
	engine *interview.Engine
}

// NewEngineTransport wraps engine as a Transport.
func NewEngineTransport(engine *interview.Engine) *EngineTransport {
	return &EngineTransport{engine: engine}
}

// Send runs one transition.
func (t *EngineTransport) Send(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.ChatResponse{}, err
	}
	return t.engine.Transition(ctx, req), nil
}
