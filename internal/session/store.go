package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// Store owns the ConversationState of a single session. All mutation goes
// through its methods; callers only ever see copies.
type Store struct {
	// turn serializes SendMessage calls; mu guards state.
	turn      sync.Mutex
	mu        sync.Mutex
	state     types.ConversationState
	epoch     uint64
	transport Transport
	now       func() time.Time
}

// NewStore creates a Store in the initial state.
func NewStore(transport Transport) *Store {
	return &Store{
		state:     types.InitialState(),
		transport: transport,
		now:       time.Now,
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() types.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// StartConversation posts the greeting if the transcript is empty.
func (s *Store) StartConversation() types.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Messages) == 0 {
		s.appendLocked(types.RoleAssistant, prompts.Greeting())
	}
	return s.state.Clone()
}

// SendMessage records the user's message, runs one turn through the
// transport, and records the reply. A transport failure is reported in the
// transcript and leaves stage, profile and question count untouched.
//
// Turns are serialized: a second call waits for the first to finish. State
// stays readable while a turn is in flight and reports IsLoading. A reply
// that arrives after ResetConversation is discarded.
func (s *Store) SendMessage(ctx context.Context, text string) types.ConversationState {
	s.turn.Lock()
	defer s.turn.Unlock()

	s.mu.Lock()
	s.appendLocked(types.RoleUser, text)
	s.state.IsLoading = true
	epoch := s.epoch
	req := types.ChatRequest{
		Message:       text,
		Stage:         s.state.Stage,
		UserData:      s.state.UserData.Clone(),
		QuestionCount: s.state.CurrentQuestionCount,
	}
	s.mu.Unlock()

	resp, err := s.transport.Send(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return s.state.Clone()
	}
	s.state.IsLoading = false

	if err != nil {
		observability.LoggerFromContext(ctx).Error("chat turn failed", "stage", req.Stage, "error", err)
		s.appendLocked(types.RoleAssistant, prompts.TransportError())
		return s.state.Clone()
	}

	s.appendLocked(types.RoleAssistant, resp.Message)
	s.state.Stage = resp.Stage
	s.state.UserData = resp.UserData.Clone()
	s.state.CurrentQuestionCount = resp.QuestionCount
	return s.state.Clone()
}

// ResetConversation discards the session and returns to the initial state.
func (s *Store) ResetConversation() types.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = types.InitialState()
	s.epoch++
	return s.state.Clone()
}

// IsComplete reports whether the interview has finished.
func (s *Store) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stage == types.StageComplete
}

func (s *Store) appendLocked(role types.Role, content string) {
	s.state.Messages = append(s.state.Messages, types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	})
}
