package entity

import "time"

type Staff struct {
	StaffId   string
	StaffName string
	LastLogin time.Time
	CreatedAt time.Time
}
