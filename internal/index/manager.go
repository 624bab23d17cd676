package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// Manager builds, loads and searches named indexes through a Store.
// Build and load of the same name are mutually exclusive, and the most
// recently used index is cached so repeated queries against one document
// skip the disk load. The cache is invalidated whenever a different name
// is requested or the name is rebuilt.
type Manager struct {
	embedder domain.Embedder
	store    Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	cacheMu    sync.Mutex
	cachedName string
	cached     *Index
}

var _ domain.Retriever = (*Manager)(nil)

// NewManager wires an embedder and a persistence store.
func NewManager(embedder domain.Embedder, store Store) *Manager {
	return &Manager{
		embedder: embedder,
		store:    store,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Build embeds every chunk in input order and persists the result under
// name. Any embedding failure fails the whole build; a partial index is
// never made visible to readers.
func (m *Manager) Build(ctx context.Context, chunks []domain.Chunk, name string) error {
	unlock := m.lockName(name)
	defer unlock()

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}

	ix := &Index{
		Name:      name,
		Model:     m.embedder.ModelInfo(),
		Dimension: m.embedder.Dimension(),
		Chunks:    chunks,
		Vectors:   vectors,
	}
	if err := ix.validate(); err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}
	if err := m.store.Save(ix); err != nil {
		return err
	}
	m.cache(name, ix)
	return nil
}

// Load returns the persisted index for name, verifying it was produced by
// the current embedder model.
func (m *Manager) Load(name string) (*Index, error) {
	if ix := m.cachedFor(name); ix != nil {
		return ix, nil
	}

	unlock := m.lockName(name)
	defer unlock()

	ix, err := m.store.Load(name)
	if err != nil {
		return nil, err
	}
	if ix.Model != m.embedder.ModelInfo() {
		return nil, fmt.Errorf("%w: %s built with %s, embedder is %s",
			domain.ErrIncompatibleIndex, name, ix.Model, m.embedder.ModelInfo())
	}
	if err := ix.validate(); err != nil {
		return nil, fmt.Errorf("load index %s: %w", name, err)
	}
	m.cache(name, ix)
	return ix, nil
}

// Retrieve embeds query and searches the named index.
func (m *Manager) Retrieve(ctx context.Context, name, query string, topK int) ([]domain.SearchResult, error) {
	ix, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	vec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	// A dimension mismatch means the embedder and index disagree; an empty
	// result here would be indistinguishable from a real miss.
	if len(vec) != ix.Dimension {
		return nil, fmt.Errorf("%w: query vector has dimension %d, index %s has %d",
			domain.ErrIncompatibleIndex, len(vec), name, ix.Dimension)
	}
	return ix.Search(vec, topK), nil
}

// ListAvailable enumerates persisted index names.
func (m *Manager) ListAvailable() ([]string, error) {
	return m.store.List()
}

func (ix *Index) validate() error {
	if len(ix.Chunks) != len(ix.Vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors",
			domain.ErrIncompatibleIndex, len(ix.Chunks), len(ix.Vectors))
	}
	for i, v := range ix.Vectors {
		if len(v) != ix.Dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d",
				domain.ErrIncompatibleIndex, i, len(v), ix.Dimension)
		}
	}
	return nil
}

func (m *Manager) lockName(name string) func() {
	m.mu.Lock()
	l, ok := m.locks[name]
	if !ok {
		l = &sync.Mutex{}
		m.locks[name] = l
	}
	m.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (m *Manager) cache(name string, ix *Index) {
	m.cacheMu.Lock()
	m.cachedName, m.cached = name, ix
	m.cacheMu.Unlock()
}

func (m *Manager) cachedFor(name string) *Index {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	if m.cachedName == name {
		return m.cached
	}
	// A different document is being targeted; drop the old handle so the
	// next turn for the previous name reloads from durable storage.
	m.cachedName, m.cached = "", nil
	return nil
}
