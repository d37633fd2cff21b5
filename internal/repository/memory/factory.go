package memory

import (
	"context"

	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/unitofwork"
)

// Factory is an in-memory unitofwork.RepositoryFactory. Transactions
// are no-ops; the repositories are shared across units of work so state
// survives between requests, which is what the tests need.
type Factory struct {
	Documents     *DocumentRepository
	AuditLogs     *AuditLogRepository
	Staff         *StaffRepository
	IndexVersions *IndexVersionRepository
	IndexChunks   *IndexChunkRepository
}

func NewFactory() *Factory {
	return &Factory{
		Documents:     NewDocumentRepository(),
		AuditLogs:     NewAuditLogRepository(),
		Staff:         NewStaffRepository(),
		IndexVersions: NewIndexVersionRepository(),
		IndexChunks:   NewIndexChunkRepository(),
	}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{factory: f}
}

type unitOfWork struct {
	factory *Factory
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) DocumentRepository() contract.DocumentRepository {
	return u.factory.Documents
}

func (u *unitOfWork) AuditLogRepository() contract.AuditLogRepository {
	return u.factory.AuditLogs
}

func (u *unitOfWork) StaffRepository() contract.StaffRepository {
	return u.factory.Staff
}

func (u *unitOfWork) IndexVersionRepository() contract.IndexVersionRepository {
	return u.factory.IndexVersions
}

func (u *unitOfWork) IndexChunkRepository() contract.IndexChunkRepository {
	return u.factory.IndexChunks
}

var _ unitofwork.RepositoryFactory = (*Factory)(nil)
