// Package rewrite turns a raw user utterance plus recent conversation into
// a standalone, context-independent query.
package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// instruction encodes the rewrite policy: greetings and acknowledgments pass
// through unchanged, utterances unrelated to the conversation pass through
// unchanged, and everything else is resolved against the preceding turns
// into one grammatically complete question.
const instruction = `Rephrase the query into a standalone question based on the following conversation. The rephrased question should capture the main intent and context from the conversation, forming a complete and independent question. If the query is a greeting or a simple acknowledgment (e.g., "hi", "good morning", "thanks"), return it unchanged. If the query is not related to the conversation, return the same query unchanged. Only respond with the rephrased query without any explanation.

Examples:
1. Conversation:
   User: What's the capital of France?
   Assistant: The capital of France is Paris.
   User: And its population?
Rephrased Query: What is the current population of Paris, the capital of France?

2. Conversation:
   User: Tell me about the Apollo 11 mission.
   Assistant: Apollo 11 was the spaceflight that first landed humans on the Moon...
   User: Who were the astronauts?
Rephrased Query: Who were the astronauts that participated in the Apollo 11 moon landing mission?

3. Conversation:
   User: What's the best pizza topping?
   Assistant: That's a matter of personal preference...
   User: What's your favorite color?
Rephrased Query: What's your favorite color?

4. Conversation:
   User: Hi there!
   Assistant: Hello! How can I help you today?
   User: Good morning
Rephrased Query: Good morning

5. Conversation:
   User: What are the types of mutual funds?
   Assistant: There are several types of mutual funds, including equity funds, bond funds, and money market funds...
   User: Tell me about equity funds.
Rephrased Query: What are the characteristics and investment strategies of equity mutual funds?

Conversation:
%s
`

// passthroughs are bare greetings and acknowledgments that never need
// conversational context, so they skip the generation call entirely.
var passthroughs = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "thanks": {}, "thank you": {},
	"ok": {}, "okay": {}, "good morning": {}, "good afternoon": {},
	"good evening": {}, "bye": {}, "goodbye": {},
}

// Rewriter resolves follow-up questions into standalone queries using a
// text-generation capability.
type Rewriter struct {
	gen domain.Generator
}

// New creates a Rewriter backed by gen.
func New(gen domain.Generator) *Rewriter {
	return &Rewriter{gen: gen}
}

// Rewrite returns a standalone form of utterance conditioned on the recent
// turns. It fails soft: on any generation failure the raw utterance is
// returned unchanged so the turn can always proceed.
func (r *Rewriter) Rewrite(ctx context.Context, utterance string, recent []domain.Turn) string {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return utterance
	}
	key := strings.ToLower(strings.Trim(trimmed, "!. "))
	if _, ok := passthroughs[key]; ok {
		return trimmed
	}

	system := fmt.Sprintf(instruction, Transcript(recent))
	user := fmt.Sprintf("User: %s\nRephrased Query: ", trimmed)

	out, err := r.gen.Generate(ctx, system, user)
	if err != nil {
		log.Printf("rewrite failed, using raw utterance: %v", err)
		return trimmed
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return trimmed
	}
	return out
}

// Transcript serializes turns as a readable conversation log for prompting.
func Transcript(turns []domain.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case domain.RoleAssistant:
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	return b.String()
}
