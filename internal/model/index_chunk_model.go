package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type IndexChunk struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VersionId   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentKey string          `gorm:"type:varchar(512);not null;index"`
	ChunkIndex  int             `gorm:"default:0"` // 0-based index for ordering
	Content     string          `gorm:"type:text;not null"`
	Embedding   pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic both fit 768 dims
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (IndexChunk) TableName() string {
	return "index_chunks"
}
