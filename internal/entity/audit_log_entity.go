package entity

import "time"

// AuditLog is one immutable record of a document or index mutation.
// LogId is assigned by the storage layer and is monotonic.
type AuditLog struct {
	LogId       int64
	StaffId     string
	StaffName   string
	Action      string
	DocumentKey *string
	CreatedAt   time.Time
}
