package service

import "sync/atomic"

// ChangeTracker counts document mutations since the last index commit.
// The count is advisory: it tells operators how stale the active index
// is, it never blocks edits or queries.
type ChangeTracker struct {
	pending atomic.Int64
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{}
}

func (t *ChangeTracker) Increment() {
	t.pending.Add(1)
}

func (t *ChangeTracker) Reset() {
	t.pending.Store(0)
}

func (t *ChangeTracker) Pending() int64 {
	return t.pending.Load()
}
