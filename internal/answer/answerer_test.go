package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

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

func TestAnswerRefusesWithoutEvidence(t *testing.T) {
	gen := &fakeGenerator{reply: "anything"}
	a := New(gen, 0)

	for _, q := range []string{"What color is grass?", "Who wrote Hamlet?"} {
		got := a.Answer(context.Background(), q, nil)
		assert.Equal(t, Refusal, got)
	}
	assert.Zero(t, gen.calls, "empty evidence must not reach the generator")
}

func TestAnswerGroundsGenerationInEvidence(t *testing.T) {
	gen := &fakeGenerator{reply: "Grass is green."}
	a := New(gen, 0)

	evidence := []domain.Chunk{
		{Text: "Grass is green."},
		{Text: "The sky is blue."},
	}
	got := a.Answer(context.Background(), "What color is grass?", evidence)
	assert.Equal(t, "Grass is green.", got)
	require.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastSystem, "Grass is green.")
	assert.Contains(t, gen.lastSystem, "The sky is blue.")
	assert.Equal(t, "What color is grass?", gen.lastUser)
	// Ranked order preserved in the context block.
	assert.Less(t,
		strings.Index(gen.lastSystem, "Grass is green."),
		strings.Index(gen.lastSystem, "The sky is blue."))
}

func TestAnswerFailsSoftOnGenerationError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend unreachable")}
	a := New(gen, 0)

	got := a.Answer(context.Background(), "q", []domain.Chunk{{Text: "evidence"}})
	assert.Equal(t, failure, got)
}

func TestAnswerTruncatesEvidenceFromTail(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	a := New(gen, 30)

	evidence := []domain.Chunk{
		{Text: strings.Repeat("a", 20)},
		{Text: strings.Repeat("b", 20)},
		{Text: strings.Repeat("c", 5)},
	}
	a.Answer(context.Background(), "q", evidence)

	// The top-ranked chunk is kept, the middle one does not fit, and later
	// chunks are dropped with it rather than re-packed around the gap.
	assert.Contains(t, gen.lastSystem, strings.Repeat("a", 20))
	assert.NotContains(t, gen.lastSystem, strings.Repeat("b", 20))
}

func TestAnswerTruncatesOversizedTopChunk(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	a := New(gen, 10)

	a.Answer(context.Background(), "q", []domain.Chunk{{Text: strings.Repeat("x", 50)}})
	assert.Contains(t, gen.lastSystem, strings.Repeat("x", 10))
	assert.NotContains(t, gen.lastSystem, strings.Repeat("x", 11))
}

func TestAnswerTruncationKeepsRuneBoundaries(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	a := New(gen, 5)

	// Two-byte runes with a five-byte budget: a naive byte slice would split
	// the third rune in half.
	a.Answer(context.Background(), "q", []domain.Chunk{{Text: strings.Repeat("é", 20)}})
	assert.True(t, utf8.ValidString(gen.lastSystem))
	assert.Equal(t, 2, strings.Count(gen.lastSystem, "é"))
}
