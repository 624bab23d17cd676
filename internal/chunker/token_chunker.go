package chunker

import (
	"strings"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// TokenChunker splits text into fixed-size token windows with overlap.
// Consecutive windows share exactly overlap tokens, so no span loses its
// neighboring context at a chunk boundary. The final partial window is kept.
type TokenChunker struct {
	chunkSize int
	overlap   int
}

// NewTokenChunker creates a chunker producing windows of chunkSize tokens
// overlapping by overlap tokens. Invalid values fall back to defaults while
// preserving 0 <= overlap < chunkSize.
func NewTokenChunker(chunkSize, overlap int) *TokenChunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &TokenChunker{chunkSize: chunkSize, overlap: overlap}
}

// Split tokenizes text on whitespace and produces overlapping windows.
// Empty or whitespace-only text yields domain.ErrEmptyInput; the caller is
// expected to treat that as "no chunks produced".
func (c *TokenChunker) Split(text string) ([]domain.Chunk, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, domain.ErrEmptyInput
	}
	step := c.chunkSize - c.overlap
	var chunks []domain.Chunk
	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, domain.Chunk{
			Text:   strings.Join(tokens[start:end], " "),
			Offset: start,
		})
		if end == len(tokens) {
			break
		}
	}
	return chunks, nil
}
