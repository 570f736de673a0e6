package repository

import (
	"context"

	"staff-service/internal/domain/entity"

	"github.com/google/uuid"
)

// AuditLogFilter narrows the doctor audit trail. Zero fields match everything.
type AuditLogFilter struct {
	Action   string
	DoctorID *uuid.UUID
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	// Find returns matching entries, newest first.
	Find(ctx context.Context, filter AuditLogFilter) ([]entity.AuditLog, error)
	FindByID(ctx context.Context, id int64) (*entity.AuditLog, error)
}
