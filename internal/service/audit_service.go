package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"campus-chatbot-be/internal/constant"
	"campus-chatbot-be/internal/dto"
	"campus-chatbot-be/internal/pkg/serverutils"
	"campus-chatbot-be/internal/repository/specification"
	"campus-chatbot-be/internal/repository/unitofwork"
)

type IAuditService interface {
	Query(ctx context.Context, req *dto.GetAuditLogsRequest) ([]*dto.AuditLogResponse, error)
	ExportCSV(ctx context.Context, req *dto.GetAuditLogsRequest) ([]byte, error)
}

type auditService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAuditService(uowFactory unitofwork.RepositoryFactory) IAuditService {
	return &auditService{
		uowFactory: uowFactory,
	}
}

func buildAuditSpecs(req *dto.GetAuditLogsRequest) ([]specification.Specification, error) {
	specs := []specification.Specification{}

	if req.Search != "" {
		specs = append(specs, specification.StaffSearch{Term: req.Search})
	}

	switch req.Window {
	case "", constant.AuditWindowAll:
		// no cutoff
	case constant.AuditWindowLast10Days:
		specs = append(specs, specification.Since{Cutoff: time.Now().AddDate(0, 0, -10)})
	case constant.AuditWindowLast30Days:
		specs = append(specs, specification.Since{Cutoff: time.Now().AddDate(0, 0, -30)})
	default:
		return nil, serverutils.NewValidationError("window must be one of: all, 10days, 30days")
	}

	specs = append(specs, specification.NewestFirst{})
	return specs, nil
}

func (s *auditService) Query(ctx context.Context, req *dto.GetAuditLogsRequest) ([]*dto.AuditLogResponse, error) {
	specs, err := buildAuditSpecs(req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.AuditLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AuditLogResponse, 0, len(logs))
	for _, log := range logs {
		res = append(res, &dto.AuditLogResponse{
			LogId:       log.LogId,
			StaffId:     log.StaffId,
			StaffName:   log.StaffName,
			Action:      log.Action,
			DocumentKey: log.DocumentKey,
			CreatedAt:   log.CreatedAt,
		})
	}
	return res, nil
}

func (s *auditService) ExportCSV(ctx context.Context, req *dto.GetAuditLogsRequest) ([]byte, error) {
	specs, err := buildAuditSpecs(req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.AuditLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"log_id", "timestamp", "staff_id", "staff_name", "action", "document_key"}); err != nil {
		return nil, err
	}

	for _, log := range logs {
		key := ""
		if log.DocumentKey != nil {
			key = *log.DocumentKey
		}
		record := []string{
			strconv.FormatInt(log.LogId, 10),
			log.CreatedAt.Format(time.RFC3339),
			log.StaffId,
			log.StaffName,
			log.Action,
			key,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
