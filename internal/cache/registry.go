package cache

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrPrefixNotFound      = errors.New("model prefix not registered")
	ErrPrefixAlreadyExists = errors.New("model prefix already registered")
)

// ModelFactory returns a pointer to a new, empty record for decoding
type ModelFactory func() interface{}

// Registry maps key prefixes to the record types stored under them
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ModelFactory
}

// NewRegistry creates an empty model registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]ModelFactory),
	}
}

// Register adds a record type for prefix
func (r *Registry) Register(prefix string, factory ModelFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[prefix]; exists {
		return fmt.Errorf("%w: %s", ErrPrefixAlreadyExists, prefix)
	}

	r.factories[prefix] = factory
	return nil
}

// New returns an empty record of the type registered for prefix
func (r *Registry) New(prefix string) (interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[prefix]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPrefixNotFound, prefix)
	}

	return factory(), nil
}

// List returns all registered prefixes
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefixes := make([]string, 0, len(r.factories))
	for prefix := range r.factories {
		prefixes = append(prefixes, prefix)
	}
	return prefixes
}

// Unregister removes a prefix from the registry
func (r *Registry) Unregister(prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[prefix]; !exists {
		return fmt.Errorf("%w: %s", ErrPrefixNotFound, prefix)
	}

	delete(r.factories, prefix)
	return nil
}
