package model

import "time"

type Staff struct {
	StaffId   string    `gorm:"type:varchar(100);primaryKey"`
	StaffName string    `gorm:"type:varchar(255);not null"`
	LastLogin time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Staff) TableName() string {
	return "staff_members"
}
