package memory

import (
	"context"
	"sort"
	"sync"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IndexVersionRepository struct {
	mu       sync.RWMutex
	versions map[uuid.UUID]*entity.IndexVersion
}

func NewIndexVersionRepository() *IndexVersionRepository {
	return &IndexVersionRepository{
		versions: make(map[uuid.UUID]*entity.IndexVersion),
	}
}

func (r *IndexVersionRepository) Create(ctx context.Context, version *entity.IndexVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if version.Id == uuid.Nil {
		version.Id = uuid.New()
	}
	c := *version
	r.versions[version.Id] = &c
	return nil
}

func (r *IndexVersionRepository) Update(ctx context.Context, version *entity.IndexVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *version
	r.versions[version.Id] = &c
	return nil
}

func (r *IndexVersionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.versions, id)
	return nil
}

func (r *IndexVersionRepository) match(v *entity.IndexVersion, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if v.Id != s.ID {
				return false
			}
		case specification.ActiveVersion:
			if !v.Active {
				return false
			}
		case specification.ByStatus:
			if v.Status != s.Status {
				return false
			}
		}
	}
	return true
}

func (r *IndexVersionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IndexVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.versions {
		if r.match(v, specs) {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (r *IndexVersionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.IndexVersion
	for _, v := range r.versions {
		if r.match(v, specs) {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *IndexVersionRepository) Activate(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		v.Active = v.Id == id
	}
	return nil
}

var _ contract.IndexVersionRepository = (*IndexVersionRepository)(nil)

// IndexChunkRepository ranks chunks with a brute-force cosine scan.
// Embeddings are expected to be normalized, so dot product == cosine.
type IndexChunkRepository struct {
	mu     sync.RWMutex
	chunks []*entity.IndexChunk
}

func NewIndexChunkRepository() *IndexChunkRepository {
	return &IndexChunkRepository{}
}

func (r *IndexChunkRepository) CreateBulk(ctx context.Context, chunks []*entity.IndexChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		if c.Id == uuid.Nil {
			c.Id = uuid.New()
		}
		clone := *c
		clone.Embedding = append([]float32(nil), c.Embedding...)
		r.chunks = append(r.chunks, &clone)
	}
	return nil
}

func (r *IndexChunkRepository) DeleteByVersionId(ctx context.Context, versionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.VersionId != versionId {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *IndexChunkRepository) CountByVersionId(ctx context.Context, versionId uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, c := range r.chunks {
		if c.VersionId == versionId {
			count++
		}
	}
	return count, nil
}

func (r *IndexChunkRepository) SearchSimilar(ctx context.Context, versionId uuid.UUID, embedding []float32, limit int) ([]*entity.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*entity.ScoredChunk
	for _, c := range r.chunks {
		if c.VersionId != versionId {
			continue
		}
		clone := *c
		scored = append(scored, &entity.ScoredChunk{
			Chunk:      &clone,
			Similarity: dot(c.Embedding, embedding),
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

var _ contract.IndexChunkRepository = (*IndexChunkRepository)(nil)
