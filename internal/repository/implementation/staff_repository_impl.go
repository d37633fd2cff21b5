package implementation

import (
	"context"
	"errors"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/mapper"
	"campus-chatbot-be/internal/model"
	"campus-chatbot-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StaffMapper
}

func NewStaffRepository(db *gorm.DB) contract.StaffRepository {
	return &StaffRepositoryImpl{
		db:     db,
		mapper: mapper.NewStaffMapper(),
	}
}

func (r *StaffRepositoryImpl) Upsert(ctx context.Context, staff *entity.Staff) error {
	m := r.mapper.ToModel(staff)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "staff_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"staff_name", "last_login"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*staff = *r.mapper.ToEntity(m)
	return nil
}

func (r *StaffRepositoryImpl) FindOne(ctx context.Context, staffId string) (*entity.Staff, error) {
	var m model.Staff
	err := r.db.WithContext(ctx).Where("staff_id = ?", staffId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StaffRepositoryImpl) FindAll(ctx context.Context, search string) ([]*entity.Staff, error) {
	var models []*model.Staff
	query := r.db.WithContext(ctx).Order("staff_id ASC")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("staff_id ILIKE ? OR staff_name ILIKE ?", pattern, pattern)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
