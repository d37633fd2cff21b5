package implementation

import (
	"context"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/mapper"
	"campus-chatbot-be/internal/model"
	"campus-chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type IndexChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IndexChunkMapper
}

func NewIndexChunkRepository(db *gorm.DB) contract.IndexChunkRepository {
	return &IndexChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewIndexChunkMapper(),
	}
}

func (r *IndexChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.IndexChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.IndexChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	// Batched insert keeps a big commit from producing one huge statement.
	if err := r.db.WithContext(ctx).CreateInBatches(models, 200).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *IndexChunkRepositoryImpl) DeleteByVersionId(ctx context.Context, versionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("version_id = ?", versionId).Delete(&model.IndexChunk{}).Error
}

func (r *IndexChunkRepositoryImpl) CountByVersionId(ctx context.Context, versionId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.IndexChunk{}).
		Where("version_id = ?", versionId).
		Count(&count).Error
	return count, err
}

// SearchSimilar ranks the chunks of one version by cosine similarity to
// the query embedding. Cosine distance in pgvector is 1 - similarity.
func (r *IndexChunkRepositoryImpl) SearchSimilar(ctx context.Context, versionId uuid.UUID, embedding []float32, limit int) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.IndexChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("index_chunks").
		Select("index_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("version_id = ?", versionId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredChunk{
			Chunk:      r.mapper.ToEntity(&res.IndexChunk),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
