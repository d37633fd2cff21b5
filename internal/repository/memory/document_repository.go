package memory

import (
	"context"
	"sort"
	"sync"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRepository is an in-memory implementation used by unit tests
// and local tooling. It interprets the subset of specifications the
// document store actually issues.
type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*entity.Document
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		docs: make(map[uuid.UUID]*entity.Document),
	}
}

func cloneDocument(d *entity.Document) *entity.Document {
	c := *d
	c.Content = append([]byte(nil), d.Content...)
	return &c
}

func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.Id == uuid.Nil {
		doc.Id = uuid.New()
	}
	for _, existing := range r.docs {
		if existing.Folder == doc.Folder && existing.Filename == doc.Filename {
			return gorm.ErrDuplicatedKey
		}
	}
	r.docs[doc.Id] = cloneDocument(doc)
	return nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.Id] = cloneDocument(doc)
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *DocumentRepository) match(doc *entity.Document, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByFolder:
			if doc.Folder != s.Folder {
				return false
			}
		case specification.ByFolderAndFilename:
			if doc.Folder != s.Folder || doc.Filename != s.Filename {
				return false
			}
		case specification.ByID:
			if doc.Id != s.ID {
				return false
			}
		}
	}
	return true
}

func (r *DocumentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.docs {
		if r.match(doc, specs) {
			return cloneDocument(doc), nil
		}
	}
	return nil, nil
}

func (r *DocumentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Document
	for _, doc := range r.docs {
		if r.match(doc, specs) {
			out = append(out, cloneDocument(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out, nil
}

func (r *DocumentRepository) ListFolders(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, doc := range r.docs {
		if doc.Folder != "" {
			seen[doc.Folder] = struct{}{}
		}
	}
	folders := make([]string, 0, len(seen))
	for f := range seen {
		folders = append(folders, f)
	}
	sort.Strings(folders)
	return folders, nil
}

func (r *DocumentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	docs, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

var _ contract.DocumentRepository = (*DocumentRepository)(nil)
