package medical

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/medchat/internal/model/chat"
)

// ErrUnsupportedFormat is returned by LoadFile for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Store exposes read access to the knowledge base.
type Store interface {
	List() []Document
	FindByID(id chat.ID) (Document, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Document
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied documents.
func NewMemoryStore(items []Document) *MemoryStore {
	return &MemoryStore{items: append([]Document(nil), items...)}
}

// List returns every document in dataset order.
func (s *MemoryStore) List() []Document {
	return append([]Document(nil), s.items...)
}

// FindByID looks up a document by identifier.
func (s *MemoryStore) FindByID(id chat.ID) (Document, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Document{}, false
}

// Len reports how many documents are loaded.
func (s *MemoryStore) Len() int {
	return len(s.items)
}

// LoadFile reads a dataset from a .json, .yaml or .yml file. The file holds
// a top-level list of documents.
func LoadFile(path string) ([]Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	var docs []Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &docs)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &docs)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return docs, nil
}
