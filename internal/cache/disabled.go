package cache

import "context"

// Disabled is a Cache that never stores anything. Every read is a miss.
type Disabled struct{}

// Get implements Cache.
func (Disabled) Get(context.Context, string) (any, bool) { return nil, false }

// Put implements Cache.
func (Disabled) Put(context.Context, string, any) {}

// ClearAll implements Cache.
func (Disabled) ClearAll(context.Context) {}

// Len implements Cache.
func (Disabled) Len() int { return 0 }
