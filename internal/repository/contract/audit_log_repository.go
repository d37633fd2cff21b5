package contract

import (
	"context"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/specification"
)

type AuditLogRepository interface {
	// Create appends one entry; the storage layer assigns LogId.
	Create(ctx context.Context, log *entity.AuditLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
