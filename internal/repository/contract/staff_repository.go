package contract

import (
	"context"

	"campus-chatbot-be/internal/entity"
)

type StaffRepository interface {
	// Upsert creates the staff record or refreshes name and last_login.
	Upsert(ctx context.Context, staff *entity.Staff) error
	FindOne(ctx context.Context, staffId string) (*entity.Staff, error)
	// FindAll lists staff stable-sorted by id, optionally filtered by a
	// case-insensitive id-or-name substring.
	FindAll(ctx context.Context, search string) ([]*entity.Staff, error)
}
