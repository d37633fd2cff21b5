package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-chatbot-be/internal/constant"
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/pkg/logger"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/repository/specification"
	"campus-chatbot-be/internal/repository/unitofwork"
	"campus-chatbot-be/pkg/embedding"
	"campus-chatbot-be/pkg/events"
	"campus-chatbot-be/pkg/extract"
	"campus-chatbot-be/pkg/index"
	pktNats "campus-chatbot-be/pkg/nats"
	"campus-chatbot-be/pkg/utils"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type ICommitService interface {
	Commit(ctx context.Context, staffId, staffName string) (*dto.CommitIndexResponse, error)
	Status(ctx context.Context) (*dto.IndexStatusResponse, error)
	// LoadActive restores the active version pointer from storage at startup.
	LoadActive(ctx context.Context) error
}

type CommitServiceOptions struct {
	ChunkSize    int
	ChunkOverlap int
	BuildTimeout time.Duration
}

type commitService struct {
	uowFactory     unitofwork.RepositoryFactory
	pipeline       *index.Pipeline
	active         *index.Active
	tracker        *ChangeTracker
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewCommitService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	extractor *extract.Registry,
	active *index.Active,
	queryCache *cache.Cache,
	tracker *ChangeTracker,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	opts CommitServiceOptions,
) ICommitService {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = constant.DefaultChunkSize
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = constant.DefaultChunkOverlap
	}

	snapshotter := &indexSnapshotter{uowFactory: uowFactory}
	builder := &indexBuilder{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		extractor:         extractor,
		chunkSize:         opts.ChunkSize,
		chunkOverlap:      opts.ChunkOverlap,
		logger:            log,
	}
	swapper := &indexSwapper{
		uowFactory: uowFactory,
		active:     active,
		queryCache: queryCache,
		tracker:    tracker,
		logger:     log,
	}

	return &commitService{
		uowFactory:     uowFactory,
		pipeline:       index.NewPipeline(snapshotter, builder, swapper, opts.BuildTimeout),
		active:         active,
		tracker:        tracker,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *commitService) Commit(ctx context.Context, staffId, staffName string) (*dto.CommitIndexResponse, error) {
	result, err := s.pipeline.Commit(ctx)
	if err != nil {
		if errors.Is(err, index.ErrBusy) {
			return nil, serverutils.NewBusy("an index commit is already in progress")
		}
		var snapErr *index.SnapshotError
		if errors.As(err, &snapErr) {
			return nil, serverutils.NewSnapshotFailed(snapErr.Err)
		}
		var buildErr *index.BuildError
		if errors.As(err, &buildErr) {
			return nil, serverutils.NewBuildFailed(buildErr.Err)
		}
		var swapErr *index.SwapError
		if errors.As(err, &swapErr) {
			return nil, serverutils.NewBuildFailed(swapErr.Err)
		}
		return nil, err
	}

	// The swap succeeded; the new version is already serving queries, so an
	// audit or bus fault cannot fail the commit. A broken audit write is
	// surfaced to the caller as a warning instead of being swallowed.
	resp := &dto.CommitIndexResponse{
		VersionId:  result.VersionId,
		ChunkCount: result.ChunkCount,
		Duration:   result.Duration,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	key := result.VersionId
	if err := uow.AuditLogRepository().Create(ctx, &entity.AuditLog{
		StaffId:     staffId,
		StaffName:   staffName,
		Action:      constant.AuditActionIndexCommitted,
		DocumentKey: &key,
		CreatedAt:   time.Now(),
	}); err != nil {
		s.logger.Error("CommitService", "Failed to record index commit audit entry", map[string]interface{}{
			"error":      err.Error(),
			"version_id": result.VersionId,
		})
		resp.Warning = fmt.Sprintf("index version %s is active but its audit entry could not be written: %v", result.VersionId, err)
	}

	if err := s.eventPublisher.Publish(ctx, events.NewIndexCommittedEvent(result.VersionId, result.ChunkCount, staffId)); err != nil {
		s.logger.Warn("CommitService", "Failed to publish INDEX_COMMITTED event", map[string]interface{}{
			"error":      err.Error(),
			"version_id": result.VersionId,
		})
	}

	s.logger.Info("CommitService", "Index committed", map[string]interface{}{
		"version_id":  result.VersionId,
		"chunk_count": result.ChunkCount,
		"duration":    result.Duration.String(),
	})

	return resp, nil
}

func (s *commitService) Status(_ context.Context) (*dto.IndexStatusResponse, error) {
	status := s.pipeline.Status()

	res := &dto.IndexStatusResponse{
		State:          string(status.State),
		Busy:           status.Busy,
		PendingChanges: s.tracker.Pending(),
		LastError:      status.LastError,
	}

	if artifact := s.active.Get(); artifact != nil {
		versionId := artifact.VersionId
		builtAt := artifact.BuiltAt
		res.ActiveVersionId = &versionId
		res.ActiveSince = &builtAt
		res.ChunkCount = artifact.ChunkCount
	}

	return res, nil
}

func (s *commitService) LoadActive(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	version, err := uow.IndexVersionRepository().FindOne(ctx, specification.ActiveVersion{})
	if err != nil {
		return err
	}
	if version == nil {
		s.logger.Info("CommitService", "No active index version found, queries unavailable until first commit", nil)
		return nil
	}

	builtAt := version.CreatedAt
	if version.BuiltAt != nil {
		builtAt = *version.BuiltAt
	}

	s.active.Swap(&index.Artifact{
		VersionId:  version.Id.String(),
		ChunkCount: version.ChunkCount,
		BuiltAt:    builtAt,
	})

	s.logger.Info("CommitService", "Restored active index version", map[string]interface{}{
		"version_id":  version.Id.String(),
		"chunk_count": version.ChunkCount,
	})
	return nil
}

// indexSnapshotter freezes the document set in key order so the build is
// deterministic for a given store state.
type indexSnapshotter struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *indexSnapshotter) Snapshot(ctx context.Context) (*index.Snapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx, specification.OrderByKey{})
	if err != nil {
		return nil, err
	}

	snapshot := &index.Snapshot{
		Documents: make([]index.SnapshotDocument, 0, len(docs)),
		TakenAt:   time.Now(),
	}
	for _, doc := range docs {
		content := make([]byte, len(doc.Content))
		copy(content, doc.Content)
		snapshot.Documents = append(snapshot.Documents, index.SnapshotDocument{
			Key:     doc.Key(),
			Content: content,
		})
	}
	return snapshot, nil
}

type indexBuilder struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	extractor         *extract.Registry
	chunkSize         int
	chunkOverlap      int
	logger            logger.ILogger
}

func (b *indexBuilder) Build(ctx context.Context, snapshot *index.Snapshot) (*index.Artifact, error) {
	uow := b.uowFactory.NewUnitOfWork(ctx)

	version := entity.IndexVersion{
		Id:            uuid.New(),
		Status:        entity.IndexVersionStatusBuilding,
		DocumentCount: len(snapshot.Documents),
		CreatedAt:     time.Now(),
	}
	if err := uow.IndexVersionRepository().Create(ctx, &version); err != nil {
		return nil, err
	}

	chunks, err := b.buildChunks(ctx, version.Id, snapshot)
	if err != nil {
		b.markFailed(ctx, &version)
		return nil, err
	}

	if len(chunks) > 0 {
		if err := uow.IndexChunkRepository().CreateBulk(ctx, chunks); err != nil {
			b.markFailed(ctx, &version)
			return nil, err
		}
	}

	now := time.Now()
	version.Status = entity.IndexVersionStatusReady
	version.ChunkCount = len(chunks)
	version.BuiltAt = &now
	if err := uow.IndexVersionRepository().Update(ctx, &version); err != nil {
		return nil, err
	}

	return &index.Artifact{
		VersionId:  version.Id.String(),
		ChunkCount: len(chunks),
		BuiltAt:    now,
	}, nil
}

func (b *indexBuilder) buildChunks(ctx context.Context, versionId uuid.UUID, snapshot *index.Snapshot) ([]*entity.IndexChunk, error) {
	var chunks []*entity.IndexChunk

	for _, doc := range snapshot.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := b.extractor.Extract(doc.Key, doc.Content)
		if err != nil {
			b.logger.Warn("CommitService", "Skipping document, extraction failed", map[string]interface{}{
				"error":        err.Error(),
				"document_key": doc.Key,
			})
			continue
		}
		parts := utils.SplitText(text, b.chunkSize, b.chunkOverlap)
		if len(parts) == 0 {
			continue
		}

		vectors, err := b.embeddingProvider.EmbedBatch(ctx, parts)
		if err != nil {
			return nil, err
		}

		for i, part := range parts {
			chunks = append(chunks, &entity.IndexChunk{
				Id:          uuid.New(),
				VersionId:   versionId,
				DocumentKey: doc.Key,
				ChunkIndex:  i,
				Content:     part,
				Embedding:   vectors[i],
				CreatedAt:   time.Now(),
			})
		}
	}

	return chunks, nil
}

// markFailed removes any partial chunks of the aborted build and keeps
// the version row (status failed) for diagnosis.
func (b *indexBuilder) markFailed(ctx context.Context, version *entity.IndexVersion) {
	// Cleanup must still run when the build ctx was canceled or timed out
	ctx = context.WithoutCancel(ctx)

	version.Status = entity.IndexVersionStatusFailed
	uow := b.uowFactory.NewUnitOfWork(ctx)
	if err := uow.IndexChunkRepository().DeleteByVersionId(ctx, version.Id); err != nil {
		b.logger.Error("CommitService", "Failed to remove partial index chunks", map[string]interface{}{
			"error":      err.Error(),
			"version_id": version.Id.String(),
		})
	}
	if err := uow.IndexVersionRepository().Update(ctx, version); err != nil {
		b.logger.Error("CommitService", "Failed to mark index version as failed", map[string]interface{}{
			"error":      err.Error(),
			"version_id": version.Id.String(),
		})
	}
}

type indexSwapper struct {
	uowFactory unitofwork.RepositoryFactory
	active     *index.Active
	queryCache *cache.Cache
	tracker    *ChangeTracker
	logger     logger.ILogger
}

func (s *indexSwapper) Swap(ctx context.Context, artifact *index.Artifact) error {
	versionId, err := uuid.Parse(artifact.VersionId)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.IndexVersionRepository().Activate(ctx, versionId); err != nil {
		return err
	}

	previous := s.active.Swap(artifact)
	s.queryCache.Flush()
	s.tracker.Reset()

	// The previous version is kept as a fallback; anything older is pruned.
	s.pruneOldVersions(ctx, versionId, previous)

	return nil
}

func (s *indexSwapper) pruneOldVersions(ctx context.Context, currentId uuid.UUID, previous *index.Artifact) {
	keep := map[uuid.UUID]bool{currentId: true}
	if previous != nil {
		if prevId, err := uuid.Parse(previous.VersionId); err == nil {
			keep[prevId] = true
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	versions, err := uow.IndexVersionRepository().FindAll(ctx)
	if err != nil {
		s.logger.Warn("CommitService", "Failed to list index versions for pruning", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	for _, version := range versions {
		if keep[version.Id] {
			continue
		}
		if err := uow.IndexChunkRepository().DeleteByVersionId(ctx, version.Id); err != nil {
			s.logger.Warn("CommitService", "Failed to prune index chunks", map[string]interface{}{
				"error":      err.Error(),
				"version_id": version.Id.String(),
			})
			continue
		}
		if err := uow.IndexVersionRepository().Delete(ctx, version.Id); err != nil {
			s.logger.Warn("CommitService", "Failed to prune index version", map[string]interface{}{
				"error":      err.Error(),
				"version_id": version.Id.String(),
			})
		}
	}
}
