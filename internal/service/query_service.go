package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"campus-chatbot-be/internal/constant"
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/repository/unitofwork"
	"campus-chatbot-be/pkg/embedding"
	"campus-chatbot-be/pkg/index"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IQueryService interface {
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
}

type queryService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	active            *index.Active
	queryCache        *cache.Cache
	defaultTopK       int
}

func NewQueryService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	active *index.Active,
	queryCache *cache.Cache,
	defaultTopK int,
) IQueryService {
	if defaultTopK <= 0 {
		defaultTopK = constant.DefaultTopK
	}
	return &queryService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		active:            active,
		queryCache:        queryCache,
		defaultTopK:       defaultTopK,
	}
}

func (s *queryService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	artifact := s.active.Get()
	if artifact == nil {
		return nil, serverutils.NewIndexUnavailable()
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.defaultTopK
	}

	cacheKey := queryCacheKey(artifact.VersionId, req.Question, topK)
	if cached, found := s.queryCache.Get(cacheKey); found {
		if res, ok := cached.(*dto.QueryResponse); ok {
			out := *res
			out.Cached = true
			return &out, nil
		}
	}

	versionId, err := uuid.Parse(artifact.VersionId)
	if err != nil {
		return nil, err
	}

	queryVector, err := s.embeddingProvider.Embed(ctx, req.Question)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.IndexChunkRepository().SearchSimilar(ctx, versionId, queryVector, topK)
	if err != nil {
		return nil, err
	}

	res := &dto.QueryResponse{
		VersionId: artifact.VersionId,
		Chunks:    make([]dto.QueryChunk, 0, len(scored)),
	}
	for _, hit := range scored {
		res.Chunks = append(res.Chunks, dto.QueryChunk{
			DocumentKey: hit.Chunk.DocumentKey,
			Content:     hit.Chunk.Content,
			Similarity:  hit.Similarity,
		})
	}

	s.queryCache.SetDefault(cacheKey, res)

	return res, nil
}

func queryCacheKey(versionId, question string, topK int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", versionId, topK, question)))
	return hex.EncodeToString(sum[:])
}
