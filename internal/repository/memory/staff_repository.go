package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/repository/contract"
)

type StaffRepository struct {
	mu    sync.RWMutex
	staff map[string]*entity.Staff
}

func NewStaffRepository() *StaffRepository {
	return &StaffRepository{
		staff: make(map[string]*entity.Staff),
	}
}

func (r *StaffRepository) Upsert(ctx context.Context, staff *entity.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.staff[staff.StaffId]
	if ok {
		staff.CreatedAt = existing.CreatedAt
	} else if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now()
	}
	c := *staff
	r.staff[staff.StaffId] = &c
	return nil
}

func (r *StaffRepository) FindOne(ctx context.Context, staffId string) (*entity.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.staff[staffId]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *StaffRepository) FindAll(ctx context.Context, search string) ([]*entity.Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	term := strings.ToLower(search)
	var out []*entity.Staff
	for _, s := range r.staff {
		if term != "" &&
			!strings.Contains(strings.ToLower(s.StaffId), term) &&
			!strings.Contains(strings.ToLower(s.StaffName), term) {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StaffId < out[j].StaffId
	})
	return out, nil
}

var _ contract.StaffRepository = (*StaffRepository)(nil)
