package mapper

import (
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/model"
)

type StaffMapper struct{}

func NewStaffMapper() *StaffMapper {
	return &StaffMapper{}
}

func (m *StaffMapper) ToEntity(s *model.Staff) *entity.Staff {
	if s == nil {
		return nil
	}
	return &entity.Staff{
		StaffId:   s.StaffId,
		StaffName: s.StaffName,
		LastLogin: s.LastLogin,
		CreatedAt: s.CreatedAt,
	}
}

func (m *StaffMapper) ToModel(s *entity.Staff) *model.Staff {
	if s == nil {
		return nil
	}
	return &model.Staff{
		StaffId:   s.StaffId,
		StaffName: s.StaffName,
		LastLogin: s.LastLogin,
		CreatedAt: s.CreatedAt,
	}
}

func (m *StaffMapper) ToEntities(staff []*model.Staff) []*entity.Staff {
	entities := make([]*entity.Staff, len(staff))
	for i, s := range staff {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
