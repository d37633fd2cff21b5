package index

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// State is the lifecycle phase of the commit pipeline.
type State string

const (
	StateIdle         State = "idle"
	StateSnapshotting State = "snapshotting"
	StateBuilding     State = "building"
	StateSwapping     State = "swapping"
)

// ErrBusy is returned when a commit is requested while another is in flight.
var ErrBusy = errors.New("index commit already in progress")

// SnapshotError wraps a failure while capturing the document snapshot.
// The pipeline has not started building yet, so the active index is untouched.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot failed: %v", e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// BuildError wraps a failure while building the new index version.
// The previously active version remains in service.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("index build failed: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// SwapError wraps a failure while activating the freshly built version.
type SwapError struct {
	Err error
}

func (e *SwapError) Error() string {
	return fmt.Sprintf("index swap failed: %v", e.Err)
}

func (e *SwapError) Unwrap() error {
	return e.Err
}

// SnapshotDocument is one document frozen at commit time.
type SnapshotDocument struct {
	Key     string
	Content []byte
}

// Snapshot is a point-in-time copy of the document store. Later edits do not
// leak into a build that is already running.
type Snapshot struct {
	Documents []SnapshotDocument
	TakenAt   time.Time
}

// Artifact describes a fully built index version ready to be activated.
type Artifact struct {
	VersionId  string
	ChunkCount int
	BuiltAt    time.Time
}

// Snapshotter captures the current document set.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Builder turns a snapshot into a new index version.
type Builder interface {
	Build(ctx context.Context, snapshot *Snapshot) (*Artifact, error)
}

// Swapper atomically activates a built version.
type Swapper interface {
	Swap(ctx context.Context, artifact *Artifact) error
}

// Result summarizes the last successful commit.
type Result struct {
	VersionId   string
	ChunkCount  int
	Duration    time.Duration
	CompletedAt time.Time
}

// Status is a point-in-time view of the pipeline for operators.
type Status struct {
	State      State
	Busy       bool
	LastError  string
	LastResult *Result
}

// Pipeline runs the snapshot -> build -> swap sequence. At most one commit may
// be in flight at a time; concurrent triggers fail fast with ErrBusy.
type Pipeline struct {
	snapshotter Snapshotter
	builder     Builder
	swapper     Swapper

	buildTimeout time.Duration

	busy atomic.Bool

	mu         sync.Mutex
	state      State
	lastErr    error
	lastResult *Result
}

func NewPipeline(snapshotter Snapshotter, builder Builder, swapper Swapper, buildTimeout time.Duration) *Pipeline {
	return &Pipeline{
		snapshotter:  snapshotter,
		builder:      builder,
		swapper:      swapper,
		buildTimeout: buildTimeout,
		state:        StateIdle,
	}
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// fail records the phase error and returns the pipeline to idle so the next
// trigger can retry. The failure stays visible through Status.LastError until
// a commit succeeds.
func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	p.state = StateIdle
	p.lastErr = err
	p.mu.Unlock()
}

// Commit runs one full rebuild. It returns ErrBusy if another commit holds the
// gate, a *SnapshotError / *BuildError / *SwapError on phase failure, or the
// Result of the new version on success.
func (p *Pipeline) Commit(ctx context.Context) (*Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	started := time.Now()

	p.setState(StateSnapshotting)
	snapshot, err := p.snapshotter.Snapshot(ctx)
	if err != nil {
		wrapped := &SnapshotError{Err: err}
		p.fail(wrapped)
		return nil, wrapped
	}

	p.setState(StateBuilding)
	buildCtx := ctx
	if p.buildTimeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, p.buildTimeout)
		defer cancel()
	}
	artifact, err := p.builder.Build(buildCtx, snapshot)
	if err != nil {
		wrapped := &BuildError{Err: err}
		p.fail(wrapped)
		return nil, wrapped
	}

	p.setState(StateSwapping)
	if err := p.swapper.Swap(ctx, artifact); err != nil {
		wrapped := &SwapError{Err: err}
		p.fail(wrapped)
		return nil, wrapped
	}

	result := &Result{
		VersionId:   artifact.VersionId,
		ChunkCount:  artifact.ChunkCount,
		Duration:    time.Since(started),
		CompletedAt: time.Now(),
	}

	p.mu.Lock()
	p.state = StateIdle
	p.lastErr = nil
	p.lastResult = result
	p.mu.Unlock()

	return result, nil
}

// Status reports the current phase, whether a commit is in flight, and the
// outcome of the most recent run.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := Status{
		State:      p.state,
		Busy:       p.busy.Load(),
		LastResult: p.lastResult,
	}
	if p.lastErr != nil {
		status.LastError = p.lastErr.Error()
	}
	return status
}
