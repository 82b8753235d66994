// Package cache stores compiled Lua keyed by a digest of the graph and compiler settings.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/picograph/pkg/domain"
)

// Store is a compiled-source cache.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, source string) error
}

// Key digests the canonical JSON of g together with settings.
// encoding/json sorts map keys, so equal graphs give equal keys.
func Key(g domain.Graph, settings ...string) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to encode graph for cache key: %w", err)
	}
	h := sha256.New()
	h.Write(data)
	for _, s := range settings {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.entries[key]
	return src, ok, nil
}

func (m *Memory) Set(_ context.Context, key, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = source
	return nil
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
