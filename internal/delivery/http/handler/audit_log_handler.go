package handler

import (
	"errors"
	"net/http"
	"strconv"

	"staff-service/internal/delivery/dto"
	"staff-service/internal/usecase"
	"staff-service/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	log             *logrus.Logger
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, log *logrus.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		log:             log,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(h.log, w, r, http.StatusBadRequest, "Invalid audit log ID", err)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			writeError(h.log, w, r, http.StatusNotFound, "Audit log not found", err)
			return
		}
		writeError(h.log, w, r, http.StatusInternalServerError, "Failed to get audit log", err)
		return
	}

	response.JSON(w, http.StatusOK, auditLog)
}

// ListAuditLogs accepts optional action and doctorId query parameters.
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := &dto.AuditLogQuery{
		Action:   r.URL.Query().Get("action"),
		DoctorID: r.URL.Query().Get("doctorId"),
	}

	auditLogs, err := h.auditLogUsecase.ListAuditLogs(r.Context(), query)
	if err != nil {
		var vErr *usecase.ValidationError
		if errors.As(err, &vErr) {
			writeError(h.log, w, r, http.StatusBadRequest, vErr.Message, err)
			return
		}
		writeError(h.log, w, r, http.StatusInternalServerError, "Failed to get audit logs", err)
		return
	}

	response.JSON(w, http.StatusOK, auditLogs)
}
