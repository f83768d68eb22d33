package cache

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is an unbounded cache with no expiry, backed by a concurrent map.
type Memory struct {
	entries *xsync.MapOf[string, any]
}

// NewMemory creates an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{entries: xsync.NewMapOf[string, any]()}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) (any, bool) {
	return m.entries.Load(key)
}

// Put implements Cache.
func (m *Memory) Put(_ context.Context, key string, value any) {
	m.entries.Store(key, value)
}

// ClearAll implements Cache.
func (m *Memory) ClearAll(_ context.Context) {
	m.entries.Clear()
}

// Len implements Cache.
func (m *Memory) Len() int {
	return m.entries.Size()
}
