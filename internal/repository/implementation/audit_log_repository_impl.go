package implementation

import (
	"context"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/mapper"
	"campus-chatbot-be/internal/model"
	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditLogMapper
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditLogMapper(),
	}
}

func (r *AuditLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, log *entity.AuditLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	// LogId comes back from the sequence; timestamps from defaults.
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *AuditLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	var models []*model.AuditLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AuditLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AuditLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
