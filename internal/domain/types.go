package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single utterance in a conversation. Immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Chunk is a bounded contiguous span of document text used as a retrieval unit.
type Chunk struct {
	Text   string
	Offset int // token offset of the chunk start within the source text
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Query is the inbound unit of work for one conversational turn.
// It is ephemeral; only the derived turns are persisted.
type Query struct {
	SessionID string `json:"id"`
	Text      string `json:"query"`
	IndexName string `json:"index_name"`
}

// TurnResult is the outcome of one pipeline turn. PersistErr carries a
// best-effort persistence failure; the answer is valid regardless.
type TurnResult struct {
	RewrittenQuery string
	Answer         string
	PersistErr     error
}
