package mapper

import (
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/model"
)

type AuditLogMapper struct{}

func NewAuditLogMapper() *AuditLogMapper {
	return &AuditLogMapper{}
}

func (m *AuditLogMapper) ToEntity(l *model.AuditLog) *entity.AuditLog {
	if l == nil {
		return nil
	}
	return &entity.AuditLog{
		LogId:       l.LogId,
		StaffId:     l.StaffId,
		StaffName:   l.StaffName,
		Action:      l.Action,
		DocumentKey: l.DocumentKey,
		CreatedAt:   l.CreatedAt,
	}
}

func (m *AuditLogMapper) ToModel(l *entity.AuditLog) *model.AuditLog {
	if l == nil {
		return nil
	}
	return &model.AuditLog{
		LogId:       l.LogId,
		StaffId:     l.StaffId,
		StaffName:   l.StaffName,
		Action:      l.Action,
		DocumentKey: l.DocumentKey,
		CreatedAt:   l.CreatedAt,
	}
}

func (m *AuditLogMapper) ToEntities(logs []*model.AuditLog) []*entity.AuditLog {
	entities := make([]*entity.AuditLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
