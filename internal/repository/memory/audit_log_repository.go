package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/contract"
	"campus-chatbot-be/internal/repository/specification"
)

// AuditLogRepository keeps the append-only ledger in memory. Log ids
// come from an atomic counter so concurrent appenders never collide.
type AuditLogRepository struct {
	mu     sync.RWMutex
	logs   []*entity.AuditLog
	nextId atomic.Int64
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	log.LogId = r.nextId.Add(1)
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	c := *log
	r.mu.Lock()
	r.logs = append(r.logs, &c)
	r.mu.Unlock()
	return nil
}

func (r *AuditLogRepository) match(log *entity.AuditLog, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.StaffSearch:
			term := strings.ToLower(s.Term)
			if !strings.Contains(strings.ToLower(log.StaffId), term) &&
				!strings.Contains(strings.ToLower(log.StaffName), term) {
				return false
			}
		case specification.Since:
			if log.CreatedAt.Before(s.Cutoff) {
				return false
			}
		}
	}
	return true
}

func (r *AuditLogRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.AuditLog
	for _, log := range r.logs {
		if r.match(log, specs) {
			c := *log
			out = append(out, &c)
		}
	}
	newestFirst := false
	for _, spec := range specs {
		if _, ok := spec.(specification.NewestFirst); ok {
			newestFirst = true
		}
	}
	if newestFirst {
		sort.Slice(out, func(i, j int) bool {
			if out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].LogId > out[j].LogId
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

func (r *AuditLogRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	logs, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(logs)), nil
}

var _ contract.AuditLogRepository = (*AuditLogRepository)(nil)
