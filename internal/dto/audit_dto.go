package dto

import "time"

type GetAuditLogsRequest struct {
	Search string `query:"search"`
	Window string `query:"window"`
}

type AuditLogResponse struct {
	LogId       int64     `json:"log_id"`
	StaffId     string    `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	Action      string    `json:"action"`
	DocumentKey *string   `json:"document_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
