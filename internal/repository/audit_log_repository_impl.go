package repository

import (
	"context"
	"errors"

	"staff-service/internal/domain/entity"
	domainRepo "staff-service/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) Find(ctx context.Context, filter domainRepo.AuditLogFilter) ([]entity.AuditLog, error) {
	query := r.db.WithContext(ctx)
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.DoctorID != nil {
		query = query.Where("metadata->>'entity_id' = ?", filter.DoctorID.String())
	}

	var logs []entity.AuditLog
	if err := query.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := r.db.WithContext(ctx).First(&log, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}
