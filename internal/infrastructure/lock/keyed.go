package lock

import (
	"sort"
	"sync"
	"time"
)

// Key builders for the shared lock namespace. Mutations must build their
// keys through these so two code paths can never pick disjoint keys for
// the same entity.
func ProductKey(productID string) string { return "product:" + productID }
func UserKey(userID string) string       { return "user:" + userID }
func ThreadKey(threadID string) string   { return "thread:" + threadID }

type entry struct {
	mu       sync.Mutex
	lastUsed time.Time
}

// KeyedMutex hands out one mutex per key so coordinator mutations can be
// serialized per entity id. The store itself offers no read-then-write
// isolation; a mutation closes the lost-update window for callers in this
// process only while it holds the key of every entity whose projections
// the multi-path write rewrites, which is what LockAll is for.
type KeyedMutex struct {
	entries map[string]*entry
	mutex   sync.RWMutex
	enabled bool
}

func NewKeyedMutex(enabled bool) *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[string]*entry),
		enabled: enabled,
	}
}

// Lock acquires the mutex for key and returns the unlock func. When the
// registry is disabled both are no-ops.
func (k *KeyedMutex) Lock(key string) func() {
	if !k.enabled {
		return func() {}
	}

	k.mutex.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.lastUsed = time.Now()
	k.mutex.Unlock()

	e.mu.Lock()
	return e.mu.Unlock
}

// LockAll acquires the mutexes for every key in one global sorted order,
// so two callers locking overlapping sets cannot deadlock. The returned
// func releases them in reverse.
func (k *KeyedMutex) LockAll(keys ...string) func() {
	if !k.enabled || len(keys) == 0 {
		return func() {}
	}

	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	unlocks := make([]func(), len(sorted))
	for i, key := range sorted {
		unlocks[i] = k.Lock(key)
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// StartCleanupRoutine drops entries idle for more than an hour, keeping the
// registry from growing with every entity id ever touched.
func (k *KeyedMutex) StartCleanupRoutine() {
	if !k.enabled {
		return
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			cutoff := time.Now().Add(-time.Hour)
			k.mutex.Lock()
			for key, e := range k.entries {
				if e.lastUsed.Before(cutoff) && e.mu.TryLock() {
					e.mu.Unlock()
					delete(k.entries, key)
				}
			}
			k.mutex.Unlock()
		}
	}()
}
