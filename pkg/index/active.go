package index

import "sync/atomic"

// Active tracks which index version serves queries. The pointer swap is the
// moment a commit becomes visible to readers; queries running against the
// previous version are unaffected.
type Active struct {
	current atomic.Pointer[Artifact]
}

func NewActive() *Active {
	return &Active{}
}

// Get returns the currently active artifact, or nil when no version has been
// committed yet.
func (a *Active) Get() *Artifact {
	return a.current.Load()
}

// Swap installs a new artifact and returns the previous one (nil on first swap).
func (a *Active) Swap(artifact *Artifact) *Artifact {
	return a.current.Swap(artifact)
}
