package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folder    string    `gorm:"type:varchar(255);not null;default:'';uniqueIndex:idx_documents_key"`
	Filename  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_documents_key"`
	Content   []byte    `gorm:"type:bytea;not null"`
	Size      int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
