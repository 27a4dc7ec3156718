package reader

import (
	"fmt"
	"sync"

	"github.com/onlysaid/onlysaid-kb/pkg/types"
)

// Reader turns a configured source into a list of documents.
// LoadDocuments is blocking and reads the entire corpus; failures are fatal
// to the owning KB's ingestion.
type Reader interface {
	Configure(options map[string]string) error
	LoadDocuments() ([]*types.Document, error)
}

// Factory produces an unconfigured reader instance
type Factory func() Reader

// Registry maps source-type tags to reader factories. Adding a reader type
// means registering a factory; no other component changes.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates a registry seeded with the built-in source types
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
	}

	// Both built-in types are local filesystem walkers
	r.Register("local_store", func() Reader { return NewLocalStoreReader() })
	r.Register("onlysaid-kb", func() Reader { return NewLocalStoreReader() })

	return r
}

// Register adds a factory for a source type
func (r *Registry) Register(sourceType string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[sourceType] = factory
}

// New produces a reader for the given source type
func (r *Registry) New(sourceType string) (Reader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[sourceType]
	if !ok {
		return nil, fmt.Errorf("unknown source type %q: %w", sourceType, types.ErrInvalidSource)
	}
	return factory(), nil
}

// Has reports whether a source type is registered
func (r *Registry) Has(sourceType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[sourceType]
	return ok
}
