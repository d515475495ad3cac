package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_PlaysBackInOrder(t *testing.T) {
	boom := errors.New("boom")
	f := NewFake(FakeReply{Text: "one"}, FakeReply{Err: boom})

	res, err := f.Complete(context.Background(), Request{User: "a", Tier: TierLite})
	require.NoError(t, err)
	assert.Equal(t, "one", res.Text)
	assert.Equal(t, "fake-lite", res.Model)
	assert.Equal(t, Provider("fake"), res.Provider)

	_, err = f.Complete(context.Background(), Request{User: "b"})
	assert.ErrorIs(t, err, boom)

	_, err = f.Complete(context.Background(), Request{User: "c"})
	assert.ErrorIs(t, err, ErrNoScriptedReply)

	reqs := f.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "b", reqs[1].User)
	assert.Equal(t, 3, f.Calls())
}

func TestFake_Respond(t *testing.T) {
	f := NewFakeText("scripted")
	f.Respond = func(r Request) (string, error) { return "echo " + r.User, nil }

	res, err := f.Complete(context.Background(), Request{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "scripted", res.Text)

	res, err = f.Complete(context.Background(), Request{User: "y"})
	require.NoError(t, err)
	assert.Equal(t, "echo y", res.Text)
}

func TestFake_CancelledContext(t *testing.T) {
	f := NewFakeText("never")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
