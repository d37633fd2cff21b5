package mapper

import (
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type IndexVersionMapper struct{}

func NewIndexVersionMapper() *IndexVersionMapper {
	return &IndexVersionMapper{}
}

func (m *IndexVersionMapper) ToEntity(v *model.IndexVersion) *entity.IndexVersion {
	if v == nil {
		return nil
	}
	return &entity.IndexVersion{
		Id:            v.Id,
		Status:        v.Status,
		Active:        v.Active,
		DocumentCount: v.DocumentCount,
		ChunkCount:    v.ChunkCount,
		BuiltAt:       v.BuiltAt,
		CreatedAt:     v.CreatedAt,
	}
}

func (m *IndexVersionMapper) ToModel(v *entity.IndexVersion) *model.IndexVersion {
	if v == nil {
		return nil
	}
	return &model.IndexVersion{
		Id:            v.Id,
		Status:        v.Status,
		Active:        v.Active,
		DocumentCount: v.DocumentCount,
		ChunkCount:    v.ChunkCount,
		BuiltAt:       v.BuiltAt,
		CreatedAt:     v.CreatedAt,
	}
}

type IndexChunkMapper struct{}

func NewIndexChunkMapper() *IndexChunkMapper {
	return &IndexChunkMapper{}
}

func (m *IndexChunkMapper) ToEntity(c *model.IndexChunk) *entity.IndexChunk {
	if c == nil {
		return nil
	}
	return &entity.IndexChunk{
		Id:          c.Id,
		VersionId:   c.VersionId,
		DocumentKey: c.DocumentKey,
		ChunkIndex:  c.ChunkIndex,
		Content:     c.Content,
		Embedding:   c.Embedding.Slice(),
		CreatedAt:   c.CreatedAt,
	}
}

func (m *IndexChunkMapper) ToModel(c *entity.IndexChunk) *model.IndexChunk {
	if c == nil {
		return nil
	}
	return &model.IndexChunk{
		Id:          c.Id,
		VersionId:   c.VersionId,
		DocumentKey: c.DocumentKey,
		ChunkIndex:  c.ChunkIndex,
		Content:     c.Content,
		Embedding:   pgvector.NewVector(c.Embedding),
		CreatedAt:   c.CreatedAt,
	}
}
