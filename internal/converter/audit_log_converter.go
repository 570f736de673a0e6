package converter

import (
	"fmt"

	"staff-service/internal/delivery/dto"
	"staff-service/internal/domain/entity"
)

// AuditLogToResponse flattens the stored metadata into the doctor id and the
// before and after snapshots.
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	resp := &dto.AuditLogResponse{
		ID:        log.ID,
		ActorID:   log.ActorID,
		Action:    log.Action,
		Before:    log.Metadata[entity.AuditMetadataOldValue],
		After:     log.Metadata[entity.AuditMetadataNewValue],
		CreatedAt: log.CreatedAt,
	}
	if id, ok := log.Metadata[entity.AuditMetadataEntityID]; ok && id != nil {
		resp.DoctorID = fmt.Sprint(id)
	}
	return resp
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, *AuditLogToResponse(&logs[i]))
	}
	return responses
}
