// Package memory implements db.Store on plain process memory. It has no
// text index: SupportsTextSearch is false and SearchText fails, which
// routes retrieval through the fuzzy path.
package memory

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/TheLout31/bazaarsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps hashes in maps guarded by a RWMutex. Scan returns keys in
// insertion order so reads are deterministic.
type Store struct {
	mu      sync.RWMutex
	hashes  map[string]map[string]string
	order   []string
	indexes map[string]struct{}
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{hashes: make(map[string]map[string]string)}
}

// Ping always succeeds unless the context is done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately; memory is always ready.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// HSet sets hash fields, merging into an existing hash.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, fields)
	return nil
}

// HSetMulti stores multiple hashes.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		s.set(item.Key, item.Fields)
	}
	return nil
}

func (s *Store) set(key string, fields map[string]string) {
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
		s.order = append(s.order, key)
	}
	for k, v := range fields {
		h[k] = v
	}
}

// HGetAll returns a copy of all fields of a hash; an absent key yields an
// empty map, mirroring Redis.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHash(s.hashes[key]), nil
}

// HGetAllMulti fetches all fields for multiple hashes.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		out[i] = copyHash(s.hashes[key])
	}
	return out, nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hashes[key]; !ok {
		return nil
	}
	delete(s.hashes, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Scan returns keys matching a glob pattern in insertion order.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for _, k := range s.order {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		if ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// CreateIndex records the definition so IndexExists answers truthfully,
// but builds nothing: there is no text engine here.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexes == nil {
		s.indexes = make(map[string]struct{})
	}
	if _, ok := s.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	s.indexes[def.Name] = struct{}{}
	return nil
}

// IndexExists reports whether CreateIndex was called for the name.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[name]
	return ok, nil
}

// SupportsTextSearch is false: callers must use the fuzzy retrieval path.
func (s *Store) SupportsTextSearch(_ context.Context) bool {
	return false
}

// SearchText always fails; the memory backend has no text index.
func (s *Store) SearchText(ctx context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, db.ErrTextSearchUnsupported
}

func copyHash(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
