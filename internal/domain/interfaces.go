package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Vectors are L2-normalized so that dot product equals cosine similarity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelInfo() string
}

// Generator produces a completion for a system instruction and user message.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Chunker splits extracted document text into overlapping windows
// suitable for embedding.
type Chunker interface {
	Split(text string) ([]Chunk, error)
}

// Retriever builds, enumerates and searches named persisted vector indexes.
type Retriever interface {
	// Build embeds every chunk and persists the index under name,
	// atomically replacing any previous index with that name.
	Build(ctx context.Context, chunks []Chunk, name string) error
	// Retrieve embeds query and returns up to topK chunks from the named
	// index ranked by descending similarity. A missing index yields
	// ErrIndexNotFound; an empty index yields an empty result, not an error.
	Retrieve(ctx context.Context, name, query string, topK int) ([]SearchResult, error)
	// ListAvailable enumerates persisted index names without loading them.
	ListAvailable() ([]string, error)
}

// ConversationStore is a per-session append-only log of turns.
type ConversationStore interface {
	// Recent returns the most recent limit turns in chronological order.
	// When no history exists it returns a synthetic, non-persisted seed
	// pair so downstream rewriting always has context.
	Recent(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	// History returns the full persisted log for a session, oldest first.
	History(ctx context.Context, sessionID string) ([]Turn, error)
	// Append extends the session log. Appends for one session are
	// serialized; existing turns are never lost or reordered.
	Append(ctx context.Context, sessionID string, turns []Turn) error
	ListSessions(ctx context.Context) ([]string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
