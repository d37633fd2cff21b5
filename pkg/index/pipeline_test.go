package index

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSnapshotter struct {
	err error
}

func (s *stubSnapshotter) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &Snapshot{
		Documents: []SnapshotDocument{{Key: "A.txt", Content: []byte("x")}},
		TakenAt:   time.Now(),
	}, nil
}

type stubBuilder struct {
	err     error
	block   chan struct{}
	version string
}

func (b *stubBuilder) Build(ctx context.Context, snapshot *Snapshot) (*Artifact, error) {
	if b.block != nil {
		select {
		case <-b.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return &Artifact{
		VersionId:  b.version,
		ChunkCount: len(snapshot.Documents),
		BuiltAt:    time.Now(),
	}, nil
}

type stubSwapper struct {
	err     error
	swapped []*Artifact
}

func (s *stubSwapper) Swap(ctx context.Context, artifact *Artifact) error {
	if s.err != nil {
		return s.err
	}
	s.swapped = append(s.swapped, artifact)
	return nil
}

func TestPipelineCommitSuccess(t *testing.T) {
	swapper := &stubSwapper{}
	pipeline := NewPipeline(&stubSnapshotter{}, &stubBuilder{version: "v1"}, swapper, time.Minute)

	result, err := pipeline.Commit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "v1", result.VersionId)
	assert.Equal(t, 1, result.ChunkCount)

	require.Len(t, swapper.swapped, 1)
	assert.Equal(t, "v1", swapper.swapped[0].VersionId)

	status := pipeline.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.False(t, status.Busy)
	assert.Empty(t, status.LastError)
	require.NotNil(t, status.LastResult)
	assert.Equal(t, "v1", status.LastResult.VersionId)
}

func TestPipelineSnapshotFailure(t *testing.T) {
	swapper := &stubSwapper{}
	pipeline := NewPipeline(
		&stubSnapshotter{err: errors.New("store unavailable")},
		&stubBuilder{version: "v1"},
		swapper,
		time.Minute,
	)

	_, err := pipeline.Commit(context.Background())
	require.Error(t, err)

	var snapErr *SnapshotError
	require.ErrorAs(t, err, &snapErr)

	// Nothing was built, nothing was swapped, and the pipeline is ready
	// for the next trigger
	assert.Empty(t, swapper.swapped)
	status := pipeline.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Contains(t, status.LastError, "store unavailable")
}

func TestPipelineBuildFailureLeavesActiveUntouched(t *testing.T) {
	swapper := &stubSwapper{}
	pipeline := NewPipeline(
		&stubSnapshotter{},
		&stubBuilder{err: errors.New("embedding provider down")},
		swapper,
		time.Minute,
	)

	_, err := pipeline.Commit(context.Background())
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)

	assert.Empty(t, swapper.swapped)

	status := pipeline.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Contains(t, status.LastError, "embedding provider down")
}

func TestPipelineRetryAfterFailureClearsError(t *testing.T) {
	builder := &stubBuilder{err: errors.New("embedding provider down")}
	pipeline := NewPipeline(&stubSnapshotter{}, builder, &stubSwapper{}, time.Minute)

	_, err := pipeline.Commit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateIdle, pipeline.Status().State)

	builder.err = nil
	builder.version = "v1"

	result, err := pipeline.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", result.VersionId)

	status := pipeline.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Empty(t, status.LastError)
}

func TestPipelineSwapFailure(t *testing.T) {
	pipeline := NewPipeline(
		&stubSnapshotter{},
		&stubBuilder{version: "v1"},
		&stubSwapper{err: errors.New("activation rejected")},
		time.Minute,
	)

	_, err := pipeline.Commit(context.Background())
	require.Error(t, err)

	var swapErr *SwapError
	require.ErrorAs(t, err, &swapErr)
}

func TestPipelineConcurrentCommitsFailFast(t *testing.T) {
	block := make(chan struct{})
	builder := &stubBuilder{version: "v1", block: block}
	pipeline := NewPipeline(&stubSnapshotter{}, builder, &stubSwapper{}, time.Minute)

	var wg sync.WaitGroup
	wg.Add(1)

	firstDone := make(chan error, 1)
	go func() {
		defer wg.Done()
		_, err := pipeline.Commit(context.Background())
		firstDone <- err
	}()

	// Wait until the first commit is inside the build phase
	assert.Eventually(t, func() bool {
		return pipeline.Status().Busy
	}, time.Second, 5*time.Millisecond)

	_, err := pipeline.Commit(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(block)
	wg.Wait()
	require.NoError(t, <-firstDone)

	// The gate is released, a fresh commit is allowed
	result, err := pipeline.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", result.VersionId)
}

func TestPipelineBuildTimeout(t *testing.T) {
	builder := &stubBuilder{version: "v1", block: make(chan struct{})}
	pipeline := NewPipeline(&stubSnapshotter{}, builder, &stubSwapper{}, 20*time.Millisecond)

	_, err := pipeline.Commit(context.Background())
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestActiveSwapReturnsPrevious(t *testing.T) {
	active := NewActive()
	assert.Nil(t, active.Get())

	first := &Artifact{VersionId: "v1"}
	assert.Nil(t, active.Swap(first))
	assert.Equal(t, first, active.Get())

	second := &Artifact{VersionId: "v2"}
	assert.Equal(t, first, active.Swap(second))
	assert.Equal(t, second, active.Get())
}
