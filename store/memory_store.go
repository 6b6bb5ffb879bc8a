package store

import (
	"sort"
	"sync"

	"github.com/KumKeeHyun/s11n"
)

func newMemStore() *memStore {
	return &memStore{
		nodes: make(map[string]*s11n.Node, 100),
	}
}

// memStore holds private copies of the stored trees, so callers may keep
// mutating the nodes they put or got.
type memStore struct {
	nodes map[string]*s11n.Node
	mu    sync.Mutex
}

var _ Store = &memStore{}

func (s *memStore) Get(key string) (*s11n.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.nodes[key]
	if !exists {
		return nil, ErrNotFound
	}
	return n.Clone(), nil
}

func (s *memStore) Put(key string, n *s11n.Node) error {
	if n == nil {
		return s11n.ErrMalformedNode
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes[key] = n.Clone()
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[key]; !exists {
		return ErrNotFound
	}
	delete(s.nodes, key)
	return nil
}

func (s *memStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.nodes))
	for k := range s.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memStore) Close() error {
	return nil
}
