package domain

import "errors"

// Error taxonomy. Input errors abort a turn before any generation call,
// capability errors are recovered with fail-soft defaults except at index
// build time, and storage errors degrade to empty evidence on the read path.
var (
	// ErrEmptyInput reports empty document text or an empty query.
	ErrEmptyInput = errors.New("empty input")

	// ErrIndexNotFound reports that no persisted index exists under a name.
	ErrIndexNotFound = errors.New("index not found")

	// ErrIncompatibleIndex reports an index built by a different embedder
	// model or dimensionality; it must not be mixed into search.
	ErrIncompatibleIndex = errors.New("incompatible index")

	// ErrEmbedding reports an unreachable or failing embedding backend.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration reports an unreachable or failing generation backend.
	ErrGeneration = errors.New("generation failed")
)
