package unitofwork

import (
	"context"

	"campus-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	AuditLogRepository() contract.AuditLogRepository
	StaffRepository() contract.StaffRepository
	IndexVersionRepository() contract.IndexVersionRepository
	IndexChunkRepository() contract.IndexChunkRepository
}
