package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByVersionId struct {
	VersionId uuid.UUID
}

func (s ByVersionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("version_id = ?", s.VersionId)
}

type ActiveVersion struct{}

func (s ActiveVersion) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("active = true")
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
