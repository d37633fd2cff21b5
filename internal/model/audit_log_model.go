package model

import "time"

type AuditLog struct {
	LogId       int64     `gorm:"primaryKey;autoIncrement"`
	StaffId     string    `gorm:"type:varchar(100);not null;index"`
	StaffName   string    `gorm:"type:varchar(255);not null;default:''"`
	Action      string    `gorm:"type:varchar(50);not null"`
	DocumentKey *string   `gorm:"type:varchar(512)"`
	CreatedAt   time.Time `gorm:"default:now();not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
