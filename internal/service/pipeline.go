// Package service composes chunking, retrieval, rewriting, answering and
// conversation persistence into the document question-answering pipeline.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ameympatil/AI-Chatbot/internal/answer"
	"github.com/ameympatil/AI-Chatbot/internal/domain"
	"github.com/ameympatil/AI-Chatbot/internal/rewrite"
)

// Options tune the per-turn behavior of the pipeline.
type Options struct {
	// TopK is the number of evidence chunks retrieved per turn.
	TopK int
	// HistoryTurns is how many recent turns feed the query rewrite.
	HistoryTurns int
	// SummarySentences bounds the ingest summary length.
	SummarySentences int
}

func (o *Options) defaults() {
	if o.TopK <= 0 {
		o.TopK = 3
	}
	if o.HistoryTurns <= 0 {
		o.HistoryTurns = 2
	}
	if o.SummarySentences <= 0 {
		o.SummarySentences = 5
	}
}

// Pipeline runs document ingestion and conversational turns. Each turn
// moves through rewrite, retrieval, answering and persistence; the first
// three degrade gracefully so a user-visible answer always comes back.
type Pipeline struct {
	chunker       domain.Chunker
	retriever     domain.Retriever
	conversations domain.ConversationStore
	rewriter      *rewrite.Rewriter
	answerer      *answer.Answerer
	summarizer    domain.Summarizer
	opts          Options
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(
	chunker domain.Chunker,
	retriever domain.Retriever,
	conversations domain.ConversationStore,
	rewriter *rewrite.Rewriter,
	answerer *answer.Answerer,
	summarizer domain.Summarizer,
	opts Options,
) *Pipeline {
	opts.defaults()
	return &Pipeline{
		chunker:       chunker,
		retriever:     retriever,
		conversations: conversations,
		rewriter:      rewriter,
		answerer:      answerer,
		summarizer:    summarizer,
		opts:          opts,
	}
}

// Ingest splits text into chunks and builds a persisted index under name.
// It returns a short summary of the document. Embedding failures abort the
// build; a partial index is never left visible.
func (p *Pipeline) Ingest(ctx context.Context, text, name string) (string, error) {
	chunks, err := p.chunker.Split(text)
	if err != nil {
		return "", fmt.Errorf("split document: %w", err)
	}
	if err := p.retriever.Build(ctx, chunks, name); err != nil {
		return "", err
	}
	summary, err := p.summarizer.Summarize(text, p.opts.SummarySentences)
	if err != nil {
		// The index is already built; a missing summary is cosmetic.
		log.Printf("summarize %s failed: %v", name, err)
		return "", nil
	}
	return summary, nil
}

// Ask runs one conversational turn. The answer is always returned for any
// well-formed query; a failed rewrite falls back to the raw utterance, a
// missing or unreadable index degrades to the refusal answer, and a
// persistence failure is reported in TurnResult.PersistErr without
// withholding the answer.
func (p *Pipeline) Ask(ctx context.Context, q domain.Query) (domain.TurnResult, error) {
	if strings.TrimSpace(q.Text) == "" {
		return domain.TurnResult{}, fmt.Errorf("%w: query text", domain.ErrEmptyInput)
	}

	recent, err := p.conversations.Recent(ctx, q.SessionID, p.opts.HistoryTurns)
	if err != nil {
		// Rewrite context is an aid, not a requirement.
		log.Printf("read history for %s failed: %v", q.SessionID, err)
		recent = nil
	}

	rewritten := p.rewriter.Rewrite(ctx, q.Text, recent)

	evidence := p.retrieve(ctx, q.IndexName, rewritten)

	answerText := p.answerer.Answer(ctx, rewritten, evidence)

	persistErr := p.conversations.Append(ctx, q.SessionID, []domain.Turn{
		{Role: domain.RoleUser, Content: rewritten},
		{Role: domain.RoleAssistant, Content: answerText},
	})
	if persistErr != nil {
		log.Printf("persist turn for %s failed: %v", q.SessionID, persistErr)
	}

	return domain.TurnResult{
		RewrittenQuery: rewritten,
		Answer:         answerText,
		PersistErr:     persistErr,
	}, nil
}

// retrieve returns evidence for the query, or nothing when the index is
// missing, unreadable or the query cannot be embedded. The refusal answer
// downstream covers all of those cases.
func (p *Pipeline) retrieve(ctx context.Context, indexName, query string) []domain.Chunk {
	if indexName == "" {
		return nil
	}
	results, err := p.retriever.Retrieve(ctx, indexName, query, p.opts.TopK)
	if err != nil {
		log.Printf("retrieve from %s failed: %v", indexName, err)
		return nil
	}
	chunks := make([]domain.Chunk, len(results))
	for i, r := range results {
		chunks[i] = r.Chunk
	}
	return chunks
}

// Indexes enumerates the persisted index names.
func (p *Pipeline) Indexes() ([]string, error) {
	return p.retriever.ListAvailable()
}

// History returns the persisted conversation log for a session.
func (p *Pipeline) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	return p.conversations.History(ctx, sessionID)
}

// Sessions enumerates session ids with persisted history.
func (p *Pipeline) Sessions(ctx context.Context) ([]string, error) {
	return p.conversations.ListSessions(ctx)
}
