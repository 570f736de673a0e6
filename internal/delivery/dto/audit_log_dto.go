package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// AuditLogQuery filters the doctor audit trail by query string.
type AuditLogQuery struct {
	Action   string `json:"action" validate:"omitempty,oneof=doctor.create doctor.update doctor.delete"`
	DoctorID string `json:"doctorId" validate:"omitempty,uuid"`
}

// Response DTOs

// AuditLogResponse is one change to a doctor. Before is empty for creations and
// After is empty for deletions.
type AuditLogResponse struct {
	ID        int64       `json:"id"`
	ActorID   *uuid.UUID  `json:"actorId,omitempty"`
	Action    string      `json:"action"`
	DoctorID  string      `json:"doctorId"`
	Before    interface{} `json:"before,omitempty"`
	After     interface{} `json:"after,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
