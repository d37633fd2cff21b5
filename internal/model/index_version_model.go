package model

import (
	"time"

	"github.com/google/uuid"
)

type IndexVersion struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status        string     `gorm:"type:varchar(20);not null;index"`
	Active        bool       `gorm:"not null;default:false;index"`
	DocumentCount int        `gorm:"not null;default:0"`
	ChunkCount    int        `gorm:"not null;default:0"`
	BuiltAt       *time.Time `gorm:""`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

func (IndexVersion) TableName() string {
	return "index_versions"
}
