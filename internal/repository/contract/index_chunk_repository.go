package contract

import (
	"context"

	"campus-chatbot-be/internal/entity"

	"github.com/google/uuid"
)

type IndexChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.IndexChunk) error
	DeleteByVersionId(ctx context.Context, versionId uuid.UUID) error
	CountByVersionId(ctx context.Context, versionId uuid.UUID) (int64, error)
	// SearchSimilar returns the chunks of one version closest to the
	// query embedding, best first, with cosine similarity scores.
	SearchSimilar(ctx context.Context, versionId uuid.UUID, embedding []float32, limit int) ([]*entity.ScoredChunk, error)
}
