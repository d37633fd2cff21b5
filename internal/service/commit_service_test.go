package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campus-chatbot-be/internal/constant"
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/memory"
	"campus-chatbot-be/internal/repository/specification"
	"campus-chatbot-be/internal/repository/unitofwork"
	"campus-chatbot-be/pkg/embedding"
	"campus-chatbot-be/pkg/extract"
	"campus-chatbot-be/pkg/index"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexFixture struct {
	factory    *memory.Factory
	active     *index.Active
	queryCache *cache.Cache
	tracker    *ChangeTracker
	commit     ICommitService
	query      IQueryService
}

func newIndexFixture(provider embedding.Provider) *indexFixture {
	factory := memory.NewFactory()
	active := index.NewActive()
	queryCache := cache.New(time.Minute, time.Minute)
	tracker := NewChangeTracker()

	commit := NewCommitService(
		factory,
		provider,
		extract.NewRegistry(),
		active,
		queryCache,
		tracker,
		nil,
		nopLogger{},
		CommitServiceOptions{ChunkSize: 64, ChunkOverlap: 8, BuildTimeout: time.Minute},
	)
	query := NewQueryService(factory, provider, active, queryCache, 5)

	return &indexFixture{
		factory:    factory,
		active:     active,
		queryCache: queryCache,
		tracker:    tracker,
		commit:     commit,
		query:      query,
	}
}

func (f *indexFixture) addDocument(t *testing.T, folder, filename, content string) {
	t.Helper()
	require.NoError(t, f.factory.Documents.Create(context.Background(), &entity.Document{
		Id:        uuid.New(),
		Folder:    folder,
		Filename:  filename,
		Content:   []byte(content),
		Size:      int64(len(content)),
		CreatedAt: time.Now(),
	}))
}

func TestCommitAndQueryRoundTrip(t *testing.T) {
	fixture := newIndexFixture(fakeEmbedder{})
	ctx := context.Background()

	fixture.addDocument(t, "", "A.txt", "enrollment opens in june")
	fixture.addDocument(t, "admissions", "fees.md", "tuition is due in august")

	res, err := fixture.commit.Commit(ctx, "s1", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, res.VersionId)
	assert.Equal(t, 2, res.ChunkCount)
	assert.Empty(t, res.Warning)

	// The committed version serves queries
	hits, err := fixture.query.Query(ctx, &dto.QueryRequest{Question: "enrollment opens in june"})
	require.NoError(t, err)
	assert.Equal(t, res.VersionId, hits.VersionId)
	require.NotEmpty(t, hits.Chunks)
	assert.Equal(t, "A.txt", hits.Chunks[0].DocumentKey)
	assert.False(t, hits.Cached)

	// Identical question is served from cache
	again, err := fixture.query.Query(ctx, &dto.QueryRequest{Question: "enrollment opens in june"})
	require.NoError(t, err)
	assert.True(t, again.Cached)

	// The commit itself is audited
	logs, err := fixture.factory.AuditLogs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, constant.AuditActionIndexCommitted, logs[0].Action)
	require.NotNil(t, logs[0].DocumentKey)
	assert.Equal(t, res.VersionId, *logs[0].DocumentKey)
}

func TestQueryWithoutCommitIsUnavailable(t *testing.T) {
	fixture := newIndexFixture(fakeEmbedder{})

	_, err := fixture.query.Query(context.Background(), &dto.QueryRequest{Question: "anything"})
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeIndexUnavailable, appErr.Code)
}

func TestCommitEmptyStore(t *testing.T) {
	fixture := newIndexFixture(fakeEmbedder{})
	ctx := context.Background()

	res, err := fixture.commit.Commit(ctx, "s1", "Alice")
	require.NoError(t, err)
	assert.Zero(t, res.ChunkCount)

	// An empty index is still an index: queries answer with no chunks
	hits, err := fixture.query.Query(ctx, &dto.QueryRequest{Question: "anything"})
	require.NoError(t, err)
	assert.Empty(t, hits.Chunks)
}

func TestCommitResetsPendingChanges(t *testing.T) {
	fixture := newIndexFixture(fakeEmbedder{})
	ctx := context.Background()

	fixture.tracker.Increment()
	fixture.tracker.Increment()

	before, err := fixture.commit.Status(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, before.PendingChanges)

	_, err = fixture.commit.Commit(ctx, "s1", "Alice")
	require.NoError(t, err)

	after, err := fixture.commit.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, after.PendingChanges)
	require.NotNil(t, after.ActiveVersionId)
}

func TestRepeatedCommitsPruneOldVersions(t *testing.T) {
	fixture := newIndexFixture(fakeEmbedder{})
	ctx := context.Background()

	fixture.addDocument(t, "", "A.txt", "x")

	var lastVersion string
	for i := 0; i < 3; i++ {
		res, err := fixture.commit.Commit(ctx, "s1", "Alice")
		require.NoError(t, err)
		lastVersion = res.VersionId
	}

	// Only the active version and its predecessor survive
	versions, err := fixture.factory.IndexVersions.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 2)

	status, err := fixture.commit.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, status.ActiveVersionId)
	assert.Equal(t, lastVersion, *status.ActiveVersionId)
}

func TestBuildFailureKeepsActiveIndex(t *testing.T) {
	fixture := newIndexFixture(fakeEmbedder{})
	ctx := context.Background()

	fixture.addDocument(t, "", "A.txt", "stable content")
	good, err := fixture.commit.Commit(ctx, "s1", "Alice")
	require.NoError(t, err)

	// A second commit service sharing the same state but with a broken
	// embedding provider
	broken := NewCommitService(
		fixture.factory,
		failingEmbedder{err: errors.New("provider down")},
		extract.NewRegistry(),
		fixture.active,
		fixture.queryCache,
		fixture.tracker,
		nil,
		nopLogger{},
		CommitServiceOptions{ChunkSize: 64, ChunkOverlap: 8, BuildTimeout: time.Minute},
	)

	_, err = broken.Commit(ctx, "s1", "Alice")
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeBuildFailed, appErr.Code)

	// The previously committed version still answers
	hits, err := fixture.query.Query(ctx, &dto.QueryRequest{Question: "stable content"})
	require.NoError(t, err)
	assert.Equal(t, good.VersionId, hits.VersionId)
	assert.NotEmpty(t, hits.Chunks)

	// The aborted build left a failed version behind for diagnosis
	failed := 0
	versions, err := fixture.factory.IndexVersions.FindAll(ctx)
	require.NoError(t, err)
	for _, v := range versions {
		if v.Status == entity.IndexVersionStatusFailed {
			failed++
			assert.False(t, v.Active)
		}
	}
	assert.Equal(t, 1, failed)
}

// failingAuditFactory serves the regular repositories but refuses audit
// writes, as when the ledger table is unavailable after a swap.
type failingAuditFactory struct {
	*memory.Factory
	auditErr error
}

func (f *failingAuditFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &failingAuditUow{UnitOfWork: f.Factory.NewUnitOfWork(ctx), err: f.auditErr}
}

type failingAuditUow struct {
	unitofwork.UnitOfWork
	err error
}

func (u *failingAuditUow) AuditLogRepository() contract.AuditLogRepository {
	return failingAuditRepo{err: u.err}
}

type failingAuditRepo struct{ err error }

func (r failingAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error { return r.err }

func (r failingAuditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	return nil, r.err
}

func (r failingAuditRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, r.err
}

func TestCommitSurfacesFailedAuditWrite(t *testing.T) {
	inner := memory.NewFactory()
	factory := &failingAuditFactory{Factory: inner, auditErr: errors.New("ledger unavailable")}
	active := index.NewActive()

	commit := NewCommitService(
		factory,
		fakeEmbedder{},
		extract.NewRegistry(),
		active,
		cache.New(time.Minute, time.Minute),
		NewChangeTracker(),
		nil,
		nopLogger{},
		CommitServiceOptions{ChunkSize: 64, ChunkOverlap: 8, BuildTimeout: time.Minute},
	)

	require.NoError(t, inner.Documents.Create(context.Background(), &entity.Document{
		Id:       uuid.New(),
		Filename: "A.txt",
		Content:  []byte("x"),
		Size:     1,
	}))

	// The commit still succeeds and the new version is active; the lost
	// ledger entry is reported back instead of being swallowed.
	res, err := commit.Commit(context.Background(), "s1", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, res.VersionId)
	assert.Contains(t, res.Warning, "ledger unavailable")
	require.NotNil(t, active.Get())
	assert.Equal(t, res.VersionId, active.Get().VersionId)
}

// blockingEmbedder parks EmbedBatch until released, to hold a commit in
// its build phase.
type blockingEmbedder struct {
	fakeEmbedder
	release chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (b *blockingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	b.once.Do(func() { close(b.entered) })
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.fakeEmbedder.EmbedBatch(ctx, texts)
}

func TestConcurrentCommitIsBusy(t *testing.T) {
	embedder := &blockingEmbedder{
		release: make(chan struct{}),
		entered: make(chan struct{}),
	}
	fixture := newIndexFixture(embedder)
	ctx := context.Background()

	fixture.addDocument(t, "", "A.txt", "x")

	done := make(chan error, 1)
	go func() {
		_, err := fixture.commit.Commit(ctx, "s1", "Alice")
		done <- err
	}()

	<-embedder.entered

	_, err := fixture.commit.Commit(ctx, "s2", "Bob")
	var appErr *serverutils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, serverutils.CodeBusy, appErr.Code)

	close(embedder.release)
	require.NoError(t, <-done)
}

func TestLoadActiveRestoresVersion(t *testing.T) {
	fixture := newIndexFixture(fakeEmbedder{})
	ctx := context.Background()

	fixture.addDocument(t, "", "A.txt", "persist me")
	res, err := fixture.commit.Commit(ctx, "s1", "Alice")
	require.NoError(t, err)

	// A second process starts with an empty pointer but the same storage
	restarted := newIndexFixtureSharingStorage(fixture.factory)
	require.NoError(t, restarted.commit.LoadActive(ctx))

	status, err := restarted.commit.Status(ctx)
	require.NoError(t, err)
	require.NotNil(t, status.ActiveVersionId)
	assert.Equal(t, res.VersionId, *status.ActiveVersionId)

	hits, err := restarted.query.Query(ctx, &dto.QueryRequest{Question: "persist me"})
	require.NoError(t, err)
	assert.NotEmpty(t, hits.Chunks)
}

func newIndexFixtureSharingStorage(factory *memory.Factory) *indexFixture {
	active := index.NewActive()
	queryCache := cache.New(time.Minute, time.Minute)
	tracker := NewChangeTracker()

	commit := NewCommitService(
		factory,
		fakeEmbedder{},
		extract.NewRegistry(),
		active,
		queryCache,
		tracker,
		nil,
		nopLogger{},
		CommitServiceOptions{ChunkSize: 64, ChunkOverlap: 8, BuildTimeout: time.Minute},
	)
	query := NewQueryService(factory, fakeEmbedder{}, active, queryCache, 5)

	return &indexFixture{
		factory:    factory,
		active:     active,
		queryCache: queryCache,
		tracker:    tracker,
		commit:     commit,
		query:      query,
	}
}
