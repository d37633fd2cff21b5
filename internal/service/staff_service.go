package service

import (
	"context"
	"time"

	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/entity"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/repository/unitofwork"
)

type IStaffService interface {
	Verify(ctx context.Context, req *dto.VerifyStaffRequest) (*dto.VerifyStaffResponse, error)
	List(ctx context.Context, search string) ([]*dto.StaffResponse, error)
}

type staffService struct {
	uowFactory unitofwork.RepositoryFactory
	tokenTTL   time.Duration
}

func NewStaffService(uowFactory unitofwork.RepositoryFactory, tokenTTL time.Duration) IStaffService {
	return &staffService{
		uowFactory: uowFactory,
		tokenTTL:   tokenTTL,
	}
}

// Verify upserts the staff record (refreshing name and last_login) and
// issues a session token for the editor endpoints.
func (s *staffService) Verify(ctx context.Context, req *dto.VerifyStaffRequest) (*dto.VerifyStaffResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	staff := entity.Staff{
		StaffId:   req.StaffId,
		StaffName: req.StaffName,
		LastLogin: time.Now(),
		CreatedAt: time.Now(),
	}
	if err := uow.StaffRepository().Upsert(ctx, &staff); err != nil {
		return nil, err
	}

	token, err := serverutils.IssueStaffToken(staff.StaffId, staff.StaffName, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.VerifyStaffResponse{
		StaffId:   staff.StaffId,
		StaffName: staff.StaffName,
		Token:     token,
	}, nil
}

func (s *staffService) List(ctx context.Context, search string) ([]*dto.StaffResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	members, err := uow.StaffRepository().FindAll(ctx, search)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.StaffResponse, 0, len(members))
	for _, member := range members {
		lastLogin := member.LastLogin
		res = append(res, &dto.StaffResponse{
			StaffId:   member.StaffId,
			StaffName: member.StaffName,
			LastLogin: &lastLogin,
		})
	}
	return res, nil
}
