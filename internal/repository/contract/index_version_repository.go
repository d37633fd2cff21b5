package contract

import (
	"context"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IndexVersionRepository interface {
	Create(ctx context.Context, version *entity.IndexVersion) error
	Update(ctx context.Context, version *entity.IndexVersion) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IndexVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexVersion, error)
	// Activate flips the active flag to the given version and clears it
	// on every other version in a single statement pair.
	Activate(ctx context.Context, id uuid.UUID) error
}
