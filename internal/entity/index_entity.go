package entity

import (
	"time"

	"github.com/google/uuid"
)

// Index version lifecycle states as persisted.
const (
	IndexVersionStatusBuilding = "building"
	IndexVersionStatusReady    = "ready"
	IndexVersionStatusFailed   = "failed"
)

// IndexVersion is the metadata of one built retrieval index artifact.
// At most one version has Active=true at any moment.
type IndexVersion struct {
	Id            uuid.UUID
	Status        string
	Active        bool
	DocumentCount int
	ChunkCount    int
	BuiltAt       *time.Time
	CreatedAt     time.Time
}

// IndexChunk is one embedded passage belonging to an index version.
type IndexChunk struct {
	Id          uuid.UUID
	VersionId   uuid.UUID
	DocumentKey string
	ChunkIndex  int
	Content     string
	Embedding   []float32
	CreatedAt   time.Time
}

// ScoredChunk pairs a chunk with its similarity to a query vector.
type ScoredChunk struct {
	Chunk      *IndexChunk
	Similarity float64
}
