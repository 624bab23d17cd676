package rewrite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

type fakeGenerator struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (g *fakeGenerator) Generate(_ context.Context, system, user string) (string, error) {
	g.calls++
	g.lastSystem = system
	g.lastUser = user
	return g.reply, g.err
}

var recent = []domain.Turn{
	{Role: domain.RoleUser, Content: "What are the types of mutual funds?"},
	{Role: domain.RoleAssistant, Content: "Equity funds, bond funds and money market funds."},
}

func TestRewriteAcknowledgmentPassthrough(t *testing.T) {
	gen := &fakeGenerator{reply: "should never be used"}
	r := New(gen)

	for _, u := range []string{"thanks", "Hi", "good morning", "Thank you!"} {
		got := r.Rewrite(context.Background(), u, recent)
		assert.Equal(t, strings.TrimSpace(u), got)
	}
	assert.Zero(t, gen.calls, "greetings must not reach the generator")
}

func TestRewriteResolvesFollowUp(t *testing.T) {
	gen := &fakeGenerator{reply: "What are the characteristics of equity mutual funds?"}
	r := New(gen)

	got := r.Rewrite(context.Background(), "Tell me about equity funds.", recent)
	assert.Equal(t, "What are the characteristics of equity mutual funds?", got)
	require.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastSystem, "User: What are the types of mutual funds?")
	assert.Contains(t, gen.lastSystem, "Assistant: Equity funds")
	assert.Contains(t, gen.lastUser, "Tell me about equity funds.")
}

func TestRewriteFailsSoftOnGenerationError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend unreachable")}
	r := New(gen)

	got := r.Rewrite(context.Background(), "Why invest in them?", recent)
	assert.Equal(t, "Why invest in them?", got)
}

func TestRewriteFallsBackOnBlankReply(t *testing.T) {
	gen := &fakeGenerator{reply: "   "}
	r := New(gen)

	got := r.Rewrite(context.Background(), "Why invest in them?", recent)
	assert.Equal(t, "Why invest in them?", got)
}

func TestTranscript(t *testing.T) {
	got := Transcript(recent)
	assert.Equal(t, "User: What are the types of mutual funds?\nAssistant: Equity funds, bond funds and money market funds.\n", got)
}
