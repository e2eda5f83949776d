// Package genkey builds generation keys and defines the registry that
// guarantees at most one instance per recurring obligation and cycle.
package genkey

import (
	"context"
	"strings"
	"sync"

	"parishtasks/internal/model"
)

// DefaultList stands in for an empty list key inside a generation key.
const DefaultList = "list"

// Build returns "{origin_type}:{origin_id}:{list_key or list}:{step_key}".
func Build(originType model.OriginType, originID, listKey, stepKey string) string {
	if listKey == "" {
		listKey = DefaultList
	}
	return strings.Join([]string{string(originType), originID, listKey, stepKey}, ":")
}

// Registry reserves generation keys. Reserve returns false when the key
// was already taken; that is the normal re-run path, not an error.
type Registry interface {
	Reserve(ctx context.Context, key string) (bool, error)
}

// Set is an in-memory Registry.
type Set struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewSet creates an empty registry.
func NewSet() *Set {
	return &Set{keys: make(map[string]struct{})}
}

// Reserve records key if absent.
func (s *Set) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = struct{}{}
	return true, nil
}

// Release forgets key so it can be generated again.
func (s *Set) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
}

// Has reports whether key is reserved.
func (s *Set) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of reserved keys.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}
