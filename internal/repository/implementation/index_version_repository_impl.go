package implementation

import (
	"context"
	"errors"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/mapper"
	"campus-chatbot-be/internal/model"
	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IndexVersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IndexVersionMapper
}

func NewIndexVersionRepository(db *gorm.DB) contract.IndexVersionRepository {
	return &IndexVersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewIndexVersionMapper(),
	}
}

func (r *IndexVersionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IndexVersionRepositoryImpl) Create(ctx context.Context, version *entity.IndexVersion) error {
	m := r.mapper.ToModel(version)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.ToEntity(m)
	return nil
}

func (r *IndexVersionRepositoryImpl) Update(ctx context.Context, version *entity.IndexVersion) error {
	m := r.mapper.ToModel(version)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.ToEntity(m)
	return nil
}

func (r *IndexVersionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.IndexVersion{}, id).Error
}

func (r *IndexVersionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.IndexVersion, error) {
	var m model.IndexVersion
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IndexVersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexVersion, error) {
	var models []*model.IndexVersion
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.IndexVersion, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// Activate makes the given version the single active one. Both updates
// run inside one transaction so readers of the durable pointer never
// observe zero or two active versions.
func (r *IndexVersionRepositoryImpl) Activate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.IndexVersion{}).
			Where("active = true AND id <> ?", id).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.IndexVersion{}).
			Where("id = ?", id).
			Update("active", true).Error
	})
}
