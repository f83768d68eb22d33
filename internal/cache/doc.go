// Package cache provides the in-process response cache that sits in front of
// the task store.
//
// The cache follows a deliberately coarse policy: reads populate it and any
// successful write clears it entirely. Backends differ only in how entries are
// held in memory. The default memory backend is unbounded and never expires
// entries, the sturdyc backend is sharded and bounded, and the disabled backend
// never stores anything.
package cache
