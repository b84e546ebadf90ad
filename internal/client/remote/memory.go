package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/visitordesk/internal/common"
)

// MemoryStore is a map-backed Store used in tests and local experiments.
// SetAvailable(false) makes every operation fail with
// common.ErrRemoteUnavailable, which is how tests simulate an unreachable
// remote store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	available   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
		available:   true,
	}
}

// SetAvailable toggles simulated reachability.
func (s *MemoryStore) SetAvailable(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = ok
}

func (s *MemoryStore) check() error {
	if !s.available {
		return fmt.Errorf("%w: simulated outage", common.ErrRemoteUnavailable)
	}
	return nil
}

func (s *MemoryStore) Put(ctx context.Context, collection, key string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, key, err)
	}

	c, ok := s.collections[collection]
	if !ok {
		c = make(map[string][]byte)
		s.collections[collection] = c
	}
	c[key] = data
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}

	c, ok := s.collections[collection]
	if !ok {
		return common.ErrNotFound
	}
	data, ok := c[key]
	if !ok {
		return common.ErrNotFound
	}

	doc := map[string]any{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal %s/%s: %w", collection, key, err)
	}
	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, key, err)
	}
	c[key] = merged
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	c, ok := s.collections[collection]
	if !ok {
		return nil, common.ErrNotFound
	}
	data, ok := c[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) QueryAll(ctx context.Context, collection string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	c := s.collections[collection]
	docs := make(map[string][]byte, len(c))
	for k, data := range c {
		docs[k] = append([]byte(nil), data...)
	}
	return docs, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check()
}

func (s *MemoryStore) Close() error {
	return nil
}
