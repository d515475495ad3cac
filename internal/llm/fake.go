package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrNoScriptedReply is returned by Fake when its script is exhausted.
var ErrNoScriptedReply = errors.New("fake llm: no scripted reply")

// FakeReply is one scripted outcome of Fake.Complete.
type FakeReply struct {
	Text string
	Err  error
}

// Fake is a scripted Client for tests. Replies are consumed in order and
// every request is recorded.
type Fake struct {
	mu       sync.Mutex
	replies  []FakeReply
	requests []Request

	// Respond, when set, is used once the scripted replies run out.
	Respond func(Request) (string, error)
	// ProviderName defaults to "fake".
	ProviderName Provider
}

// NewFake returns a Fake that plays back replies in order.
func NewFake(replies ...FakeReply) *Fake {
	return &Fake{replies: replies}
}

// NewFakeText returns a Fake that answers with each text in order.
func NewFakeText(texts ...string) *Fake {
	replies := make([]FakeReply, len(texts))
	for i, t := range texts {
		replies[i] = FakeReply{Text: t}
	}
	return NewFake(replies...)
}

// Push appends scripted replies.
func (f *Fake) Push(replies ...FakeReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replies...)
}

// Complete returns the next scripted reply.
func (f *Fake) Complete(ctx context.Context, req Request) (*Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	var (
		reply   FakeReply
		have    bool
		respond = f.Respond
	)
	if len(f.replies) > 0 {
		reply, have = f.replies[0], true
		f.replies = f.replies[1:]
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !have {
		if respond == nil {
			return nil, ErrNoScriptedReply
		}
		text, err := respond(req)
		reply = FakeReply{Text: text, Err: err}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	model := req.Model
	if model == "" {
		model = "fake-" + string(req.Tier)
	}
	return &Result{
		Provider: f.Provider(),
		Model:    model,
		Text:     reply.Text,
		Usage:    usage(len(req.User)/4, len(reply.Text)/4, 0),
	}, nil
}

// Requests returns a copy of the recorded requests.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Calls returns how many completions were requested.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Provider returns ProviderName or "fake".
func (f *Fake) Provider() Provider {
	if f.ProviderName != "" {
		return f.ProviderName
	}
	return "fake"
}

// GetModel returns a placeholder model name.
func (f *Fake) GetModel(tier ModelTier) string {
	return "fake-" + string(tier)
}

// Close is a no-op.
func (f *Fake) Close() error {
	return nil
}
