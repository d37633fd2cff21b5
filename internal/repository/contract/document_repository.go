package contract

import (
	"context"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	// ListFolders returns the distinct named folders present in the store.
	ListFolders(ctx context.Context) ([]string, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
