// Package recent keeps the short list of recently searched queries.
package recent

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
)

const (
	// Key is the storage key the list is persisted under
	Key = "wiki-recent-searches"

	// MaxEntries bounds the list length
	MaxEntries = 5
)

// KV is best-effort durable string storage. Every operation may fail.
type KV interface {
	// Get returns the value stored at key; ok is false when the key is absent
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store is the recent-search list. Storage failures are logged and otherwise
// ignored: reads fall back to an empty list and writes become no-ops.
type Store struct {
	// mu serializes the read-modify-write in Add against other writers
	mu sync.Mutex
	kv KV
}

// NewStore creates a store persisting through kv
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Recent returns the stored queries, most recent first. Never nil.
func (s *Store) Recent(ctx context.Context) []string {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		log.Printf("Warning: Failed to read recent searches: %v", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}

	var queries []string
	if err := json.Unmarshal([]byte(raw), &queries); err != nil {
		log.Printf("Warning: Ignoring unreadable recent searches: %v", err)
		return []string{}
	}
	if queries == nil {
		return []string{}
	}
	return queries
}

// Add moves query to the front of the list, dropping any earlier copy and
// the oldest entries beyond MaxEntries. Blank queries are ignored.
func (s *Store) Add(ctx context.Context, query string) {
	if strings.TrimSpace(query) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]string, 0, MaxEntries)
	updated = append(updated, query)
	for _, q := range s.Recent(ctx) {
		if q != query {
			updated = append(updated, q)
		}
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		log.Printf("Warning: Failed to encode recent searches: %v", err)
		return
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		log.Printf("Warning: Failed to save recent searches: %v", err)
	}
}

// Clear deletes the list
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, Key); err != nil {
		log.Printf("Warning: Failed to clear recent searches: %v", err)
	}
}
