package specification

import (
	"time"

	"gorm.io/gorm"
)

// StaffSearch matches case-insensitively against staff id OR staff name.
type StaffSearch struct {
	Term string
}

func (s StaffSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Term + "%"
	return db.Where("staff_id ILIKE ? OR staff_name ILIKE ?", pattern, pattern)
}

// Since filters entries created at or after the cutoff.
type Since struct {
	Cutoff time.Time
}

func (s Since) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Cutoff)
}

// NewestFirst orders audit entries newest first, log id as tiebreaker.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, log_id DESC")
}
