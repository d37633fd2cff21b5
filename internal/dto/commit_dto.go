package dto

import "time"

type CommitIndexResponse struct {
	VersionId  string        `json:"version_id"`
	ChunkCount int           `json:"chunk_count"`
	Duration   time.Duration `json:"duration_ns"`
	Warning    string        `json:"warning,omitempty"`
}

type IndexStatusResponse struct {
	State           string     `json:"state"`
	Busy            bool       `json:"busy"`
	ActiveVersionId *string    `json:"active_version_id"`
	ActiveSince     *time.Time `json:"active_since"`
	ChunkCount      int        `json:"chunk_count"`
	PendingChanges  int64      `json:"pending_changes"`
	LastError       string     `json:"last_error,omitempty"`
}
