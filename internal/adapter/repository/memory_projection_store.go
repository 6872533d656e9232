package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"usedmarket/internal/domain/repository"
	"usedmarket/pkg/errors"
)

// MemoryProjectionStore is an in-process ProjectionStore with the same
// observable semantics as the RTDB store: JSON-shaped values, null deletes,
// all-or-nothing multi-path writes, generated push keys. It backs every
// use-case test, and FailNextMulti lets tests force a rejected multi-write
// to assert that no partial state becomes visible.
type MemoryProjectionStore struct {
	mu      sync.RWMutex
	tree    map[string]interface{}
	pushSeq int

	failNextMulti bool
}

var _ repository.ProjectionStore = (*MemoryProjectionStore)(nil)

func NewMemoryProjectionStore() *MemoryProjectionStore {
	return &MemoryProjectionStore{
		tree: make(map[string]interface{}),
	}
}

// FailNextMulti makes the next ApplyMulti call fail before mutating
// anything.
func (s *MemoryProjectionStore) FailNextMulti() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextMulti = true
}

func (s *MemoryProjectionStore) Get(ctx context.Context, path string, dest interface{}) error {
	s.mu.RLock()
	node, ok := s.lookup(path)
	if !ok {
		s.mu.RUnlock()
		return errors.NotFound(path, nil)
	}

	// node aliases the live tree; marshal before releasing the lock so a
	// concurrent write cannot mutate it mid-encode.
	raw, err := json.Marshal(node)
	s.mu.RUnlock()

	if err != nil {
		return errors.Internal("Failed to encode store data", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Internal("Failed to decode store data", err)
	}
	return nil
}

func (s *MemoryProjectionStore) Set(ctx context.Context, path string, value interface{}) error {
	normalized, err := normalize(value)
	if err != nil {
		return errors.Internal("Failed to encode value", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(path, normalized)
	return nil
}

func (s *MemoryProjectionStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(path, nil)
	return nil
}

func (s *MemoryProjectionStore) ApplyMulti(ctx context.Context, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	// Normalize everything up front so a bad value cannot leave the write
	// half applied.
	normalized := make(map[string]interface{}, len(updates))
	for path, value := range updates {
		if value == nil {
			normalized[path] = nil
			continue
		}
		n, err := normalize(value)
		if err != nil {
			return errors.Internal("Failed to encode value", err)
		}
		normalized[path] = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNextMulti {
		s.failNextMulti = false
		return errors.Internal("Multi-path write rejected by store", nil)
	}

	for path, value := range normalized {
		s.write(path, value)
	}
	return nil
}

func (s *MemoryProjectionStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	normalized, err := normalize(value)
	if err != nil {
		return "", errors.Internal("Failed to encode value", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushSeq++
	key := fmt.Sprintf("-K%010d", s.pushSeq)
	s.write(path+"/"+key, normalized)
	return key, nil
}

// normalize round-trips a value through JSON so the stored shape matches
// what the RTDB client would persist.
func normalize(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func segments(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

// lookup walks the tree without locking; callers hold the mutex.
func (s *MemoryProjectionStore) lookup(path string) (interface{}, bool) {
	var node interface{} = s.tree
	for _, seg := range segments(path) {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	if m, ok := node.(map[string]interface{}); ok && len(m) == 0 {
		// The store prunes empty nodes; an empty map reads as absent.
		return nil, false
	}
	return node, true
}

// write sets or deletes (value == nil) the node at path; callers hold the
// mutex.
func (s *MemoryProjectionStore) write(path string, value interface{}) {
	segs := segments(path)
	parent := s.tree
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			parent[seg] = child
		}
		parent = child
	}

	leaf := segs[len(segs)-1]
	if value == nil {
		delete(parent, leaf)
		return
	}
	parent[leaf] = value
}
