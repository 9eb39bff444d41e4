package schema

import (
	"fmt"
	"sync"
)

// Library holds parsed schema documents keyed by schema identifier. It is
// populated at initialization and read-only afterward; reads need no
// locking once population is done, but Add is guarded so double
// initialization races stay safe.
type Library struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

func NewLibrary() *Library {
	return &Library{schemas: make(map[string]*Schema)}
}

// Add parses and registers a schema document. The document must carry an
// id. Re-adding the same id is a no-op (first writer wins).
func (l *Library) Add(data []byte) (*Schema, error) {
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.ID == "" {
		return nil, fmt.Errorf("%w: document has no id", ErrSchemaParse)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.schemas[s.ID]; ok {
		return existing, nil
	}
	l.schemas[s.ID] = s
	return s, nil
}

// Get returns the schema registered under id.
func (l *Library) Get(id string) (*Schema, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.schemas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSchema, id)
	}
	return s, nil
}

// IDs returns all registered schema identifiers.
func (l *Library) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := make([]string, 0, len(l.schemas))
	for id := range l.schemas {
		res = append(res, id)
	}
	return res
}
