// Package answer generates responses grounded strictly in retrieved
// document evidence.
package answer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// Refusal is emitted whenever the evidence does not support an answer.
const Refusal = "I don't have information about that in my current knowledge base."

// failure is emitted when the generation backend fails after retries.
const failure = "Failed to answer question."

// instruction constrains generation to the supplied documents and fixes the
// refusal wording for unsupported questions.
const instruction = `You are an AI assistant tasked with answering questions based on the following documents. Adhere to these guidelines:

1. Tone: Maintain a friendly and helpful tone, similar to a chatbot.
2. Scope: Only answer questions directly related to the provided documents.
3. Style: Provide formal, clear, and concise answers.
4. Attribution: Do not use phrases like "According to the documents" or "Based on the context."
5. Unrelated queries: If the question is not related to the documents, respond with "I don't have information about that in my current knowledge base."

Documents:
%s
`

// Answerer turns a standalone query plus evidence chunks into an answer.
type Answerer struct {
	gen domain.Generator
	// contextChars bounds the evidence block fed to generation.
	contextChars int
}

// New creates an Answerer with the given evidence budget in characters.
func New(gen domain.Generator, contextChars int) *Answerer {
	if contextChars <= 0 {
		contextChars = 12000
	}
	return &Answerer{gen: gen, contextChars: contextChars}
}

// Answer produces a grounded answer, the fixed refusal when evidence is
// empty, or the fixed failure string when generation fails. It never
// returns an error; every path yields a user-visible string.
func (a *Answerer) Answer(ctx context.Context, query string, evidence []domain.Chunk) string {
	if len(evidence) == 0 {
		return Refusal
	}
	system := fmt.Sprintf(instruction, a.contextBlock(evidence))
	out, err := a.gen.Generate(ctx, system, query)
	if err != nil {
		log.Printf("answer generation failed: %v", err)
		return failure
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return failure
	}
	return out
}

// contextBlock concatenates evidence in ranked order. When the budget would
// be exceeded, lower-ranked chunks are dropped from the tail; the top chunk
// is always included, truncated if it alone exceeds the budget.
func (a *Answerer) contextBlock(evidence []domain.Chunk) string {
	var b strings.Builder
	for i, ch := range evidence {
		sep := 0
		if i > 0 {
			sep = 2
		}
		if b.Len()+sep+len(ch.Text) > a.contextChars {
			if i == 0 {
				return truncate(ch.Text, a.contextChars)
			}
			break
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(ch.Text)
	}
	return b.String()
}

// truncate cuts s to at most n bytes, backing off to a rune boundary so the
// prompt never carries a split multi-byte character.
func truncate(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
