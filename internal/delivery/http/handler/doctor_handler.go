package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"staff-service/internal/delivery/dto"
	"staff-service/internal/delivery/http/middleware"
	"staff-service/internal/domain/entity"
	"staff-service/internal/usecase"
	"staff-service/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Client-facing messages
const (
	msgDoctorNotFound              = "Doctor not found"
	msgNoDoctorsFound              = "No doctors found for the given clinicId and speciality"
	msgAuthenticatedDoctorNotFound = "Authenticated doctor not found"
	msgSpecialtyUpdated            = "Speciality updated successfully"
	msgNationalIDExists            = "A doctor with this DNI already exists"
	msgUserIDExists                = "A doctor is already linked to this user"
	msgProvisionFailed             = "Failed to create the doctor's user account"
	msgDeprovisionFailed           = "Failed to delete the doctor's user account"
	msgInvalidBody                 = "Invalid request body"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	log           *logrus.Logger
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, log *logrus.Logger) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		log:           log,
	}
}

func (h *DoctorHandler) Register(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.RegisterDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.log, w, r, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	doctor, err := h.doctorUsecase.Register(r.Context(), session, &req)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(h.log, w, r, http.StatusBadRequest, vErr.Message, err)
		case errors.Is(err, usecase.ErrNationalIDExists):
			writeError(h.log, w, r, http.StatusBadRequest, msgNationalIDExists, err)
		case errors.Is(err, usecase.ErrUserIDExists):
			writeError(h.log, w, r, http.StatusBadRequest, msgUserIDExists, err)
		case errors.Is(err, usecase.ErrUpstreamProvision):
			writeError(h.log, w, r, http.StatusBadRequest, msgProvisionFailed, err)
		default:
			writeError(h.log, w, r, http.StatusInternalServerError, "Failed to register doctor", err)
		}
		return
	}

	response.JSON(w, http.StatusCreated, doctor)
}

// GetDoctorsBySpecialty serves both /clinic/{clinicId}/speciality and
// /clinic/{clinicId}/speciality/{speciality}.
func (h *DoctorHandler) GetDoctorsBySpecialty(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clinicID, err := uuid.Parse(vars["clinicId"])
	if err != nil {
		writeError(h.log, w, r, http.StatusNotFound, msgNoDoctorsFound, err)
		return
	}

	var specialty *entity.Specialty
	if raw, ok := vars["speciality"]; ok && raw != "" {
		s := entity.Specialty(raw)
		specialty = &s
	}

	doctors, err := h.doctorUsecase.GetDoctorsBySpecialty(r.Context(), clinicID, specialty)
	if err != nil {
		if errors.Is(err, usecase.ErrNoDoctorsFound) {
			writeError(h.log, w, r, http.StatusNotFound, msgNoDoctorsFound, err)
			return
		}
		writeError(h.log, w, r, http.StatusInternalServerError, "Failed to get doctors", err)
		return
	}

	response.JSON(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		writeError(h.log, w, r, http.StatusNotFound, msgDoctorNotFound, err)
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			writeError(h.log, w, r, http.StatusNotFound, msgDoctorNotFound, err)
			return
		}
		writeError(h.log, w, r, http.StatusInternalServerError, "Failed to get doctor", err)
		return
	}

	response.JSON(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	doctor, err := h.doctorUsecase.GetMe(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuthenticatedDoctorNotFound) {
			writeError(h.log, w, r, http.StatusNotFound, msgAuthenticatedDoctorNotFound, err)
			return
		}
		writeError(h.log, w, r, http.StatusInternalServerError, "Failed to get doctor", err)
		return
	}

	response.JSON(w, http.StatusOK, doctor)
}

func (h *DoctorHandler) UpdateSpecialty(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		writeError(h.log, w, r, http.StatusNotFound, msgDoctorNotFound, err)
		return
	}

	var req dto.UpdateSpecialtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.log, w, r, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	doctor, err := h.doctorUsecase.UpdateSpecialty(r.Context(), session, doctorID, &req)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeError(h.log, w, r, http.StatusBadRequest, vErr.Message, err)
		case errors.Is(err, usecase.ErrDoctorNotFound):
			writeError(h.log, w, r, http.StatusNotFound, msgDoctorNotFound, err)
		default:
			writeError(h.log, w, r, http.StatusInternalServerError, "Failed to update doctor", err)
		}
		return
	}

	response.JSON(w, http.StatusOK, dto.UpdateSpecialtyResponse{
		Message: msgSpecialtyUpdated,
		Doctor:  doctor,
	})
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		writeError(h.log, w, r, http.StatusNotFound, msgDoctorNotFound, err)
		return
	}

	if err := h.doctorUsecase.DeleteDoctor(r.Context(), session, doctorID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			writeError(h.log, w, r, http.StatusNotFound, msgDoctorNotFound, err)
		case errors.Is(err, usecase.ErrUpstreamDeprovision):
			writeError(h.log, w, r, http.StatusInternalServerError, msgDeprovisionFailed, err)
		default:
			writeError(h.log, w, r, http.StatusInternalServerError, "Failed to delete doctor", err)
		}
		return
	}

	response.NoContent(w)
}
