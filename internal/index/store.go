package index

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// Store persists built indexes under their names.
type Store interface {
	Save(ix *Index) error
	Load(name string) (*Index, error)
	List() ([]string, error)
}

const fileExt = ".gob"

// FileStore keeps one gob file per index under a data directory.
// Save writes to a temp file and renames it into place, so readers never
// observe a half-written index.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save atomically replaces the persisted index for ix.Name.
func (s *FileStore) Save(ix *Index) error {
	if err := validName(ix.Name); err != nil {
		return err
	}
	final := filepath.Join(s.dir, ix.Name+fileExt)
	tmp, err := os.CreateTemp(s.dir, ix.Name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	if err := gob.NewEncoder(tmp).Encode(ix); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode index %s: %w", ix.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace index %s: %w", ix.Name, err)
	}
	return nil
}

// Load reads the persisted index for name. A missing file reports
// domain.ErrIndexNotFound.
func (s *FileStore) Load(name string) (*Index, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, name+fileExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, name)
		}
		return nil, fmt.Errorf("open index %s: %w", name, err)
	}
	defer f.Close()

	var ix Index
	if err := gob.NewDecoder(f).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", name, err)
	}
	return &ix, nil
}

// List enumerates persisted index names without loading their contents.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read index dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	return names, nil
}

// validName rejects names that are empty or would escape the data directory.
func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("%w: invalid index name %q", domain.ErrEmptyInput, name)
	}
	return nil
}
