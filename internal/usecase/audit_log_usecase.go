package usecase

import (
	"context"

	"staff-service/internal/converter"
	"staff-service/internal/delivery/dto"
	"staff-service/internal/domain/repository"
	"staff-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditLogUsecase reads the trail of doctor changes written by AuditService.
type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
	validator    *validator.CustomValidator
}

func NewAuditLogUsecase(
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	validator *validator.CustomValidator,
) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditLogRepo: auditLogRepo,
		validator:    validator,
	}
}

func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	if err := u.validator.Validate(query); err != nil {
		return nil, &ValidationError{
			Message: u.validator.FirstError(err),
			Fields:  u.validator.FormatValidationErrors(err),
		}
	}

	filter := repository.AuditLogFilter{Action: query.Action}
	if query.DoctorID != "" {
		doctorID, err := uuid.Parse(query.DoctorID)
		if err != nil {
			return nil, &ValidationError{Message: query.DoctorID + " is not a valid UUID!"}
		}
		filter.DoctorID = &doctorID
	}

	logs, err := u.auditLogRepo.Find(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
