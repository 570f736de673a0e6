package usecase

import (
	"context"
	"errors"
	"fmt"

	"staff-service/internal/converter"
	"staff-service/internal/delivery/dto"
	"staff-service/internal/domain/entity"
	"staff-service/internal/domain/repository"
	"staff-service/internal/platform/metrics"
	"staff-service/internal/service"
	"staff-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const doctorEntityName = "doctor"

// CredentialService creates and removes the auth-service user behind a doctor.
// Errors mean the remote state is unknown or unchanged.
type CredentialService interface {
	ProvisionCredential(ctx context.Context, email, password string, roles []string, sessionToken string) (uuid.UUID, error)
	DeprovisionCredential(ctx context.Context, userID uuid.UUID, sessionToken string) error
}

type DoctorUsecase interface {
	Register(ctx context.Context, session entity.Session, req *dto.RegisterDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error)
	GetDoctorsBySpecialty(ctx context.Context, clinicID uuid.UUID, specialty *entity.Specialty) ([]dto.DoctorResponse, error)
	UpdateSpecialty(ctx context.Context, session entity.Session, id uuid.UUID, req *dto.UpdateSpecialtyRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, session entity.Session, id uuid.UUID) error
}

type doctorUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	credentials  CredentialService
	cache        service.DoctorCache
	auditService service.AuditService
	validator    *validator.CustomValidator
	metrics      *metrics.Metrics
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	credentials CredentialService,
	cache service.DoctorCache,
	auditService service.AuditService,
	validator *validator.CustomValidator,
	metrics *metrics.Metrics,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		credentials:  credentials,
		cache:        cache,
		auditService: auditService,
		validator:    validator,
		metrics:      metrics,
	}
}

// Register provisions the credential first and stores the doctor only once the
// auth service has answered with the new user id.
func (u *doctorUsecase) Register(ctx context.Context, session entity.Session, req *dto.RegisterDoctorRequest) (*dto.DoctorResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, u.validationError(err)
	}
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		return nil, &ValidationError{Message: req.ClinicID + " is not a valid UUID!"}
	}

	// Advisory only; the unique index settles races.
	existing, err := u.doctorRepo.FindByNationalID(ctx, req.DNI)
	if err != nil {
		u.log.Warnf("Failed to look up doctor by national ID: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrNationalIDExists
	}

	userID, err := u.credentials.ProvisionCredential(ctx, req.Email, req.Password, []string{entity.RoleDoctor}, session.Token)
	if err != nil {
		u.log.Warnf("Failed to provision credential for %s: %+v", req.Email, err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamProvision, err)
	}

	doctor := &entity.Doctor{
		Name:       req.Name,
		Surname:    req.Surname,
		Specialty:  entity.Specialty(req.Specialty),
		NationalID: req.DNI,
		ClinicID:   clinicID,
		UserID:     userID,
		Active:     true,
	}
	if err := u.doctorRepo.Create(ctx, doctor); err != nil {
		// TODO: call DeprovisionCredential for userID here once compensating
		// deletes are approved; until then the orphan is logged and counted.
		u.metrics.IncrementOrphanedCredentials()
		u.log.WithFields(logrus.Fields{
			"user_id":     userID,
			"national_id": req.DNI,
		}).Errorf("Failed to create doctor after provisioning credential, credential is orphaned: %+v", err)

		switch {
		case errors.Is(err, repository.ErrDuplicateNationalID):
			return nil, ErrNationalIDExists
		case errors.Is(err, repository.ErrDuplicateUserID):
			return nil, ErrUserIDExists
		case errors.Is(err, entity.ErrInvalidDoctor):
			return nil, &ValidationError{Message: err.Error()}
		}
		return nil, err
	}

	resp := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogCreate(ctx, actor(session), entity.AuditActionDoctorCreate, doctorEntityName, doctor.ID.String(), resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	u.metrics.IncrementDoctorsRegistered()
	u.log.Infof("Doctor %s created", doctor.ID)

	return resp, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	if doctor, ok := u.cache.Get(ctx, id); ok {
		return converter.DoctorToResponse(doctor), nil
	}

	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	u.cache.Set(ctx, doctor)

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by user ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrAuthenticatedDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

// GetDoctorsBySpecialty reports an empty result as ErrNoDoctorsFound rather than an empty list.
func (u *doctorUsecase) GetDoctorsBySpecialty(ctx context.Context, clinicID uuid.UUID, specialty *entity.Specialty) ([]dto.DoctorResponse, error) {
	doctors, err := u.doctorRepo.FindByClinicAndSpecialty(ctx, clinicID, specialty)
	if err != nil {
		u.log.Warnf("Failed to find doctors by clinic: %+v", err)
		return nil, err
	}
	if len(doctors) == 0 {
		return nil, ErrNoDoctorsFound
	}

	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) UpdateSpecialty(ctx context.Context, session entity.Session, id uuid.UUID, req *dto.UpdateSpecialtyRequest) (*dto.DoctorResponse, error) {
	if err := u.validator.Validate(req); err != nil {
		return nil, u.validationError(err)
	}

	current, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if current == nil {
		return nil, ErrDoctorNotFound
	}
	oldValue := converter.DoctorToResponse(current)

	if err := u.invalidate(ctx, id); err != nil {
		return nil, err
	}
	updated, err := u.doctorRepo.UpdateSpecialty(ctx, id, entity.Specialty(req.Specialty))
	if err != nil {
		u.log.Warnf("Failed to update doctor specialty: %+v", err)
		if errors.Is(err, entity.ErrInvalidDoctor) {
			return nil, &ValidationError{Message: err.Error()}
		}
		return nil, err
	}
	if updated == nil {
		return nil, ErrDoctorNotFound
	}
	u.reinvalidate(ctx, id)

	newValue := converter.DoctorToResponse(updated)
	if err := u.auditService.LogUpdate(ctx, actor(session), entity.AuditActionDoctorUpdate, doctorEntityName, id.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return newValue, nil
}

// DeleteDoctor removes the remote credential first and keeps the local record
// unless the auth service confirms the removal. Once the credential is gone the
// local delete no longer follows the caller's cancellation.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, session entity.Session, id uuid.UUID) error {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := u.invalidate(ctx, id); err != nil {
		return err
	}

	if err := u.credentials.DeprovisionCredential(ctx, doctor.UserID, session.Token); err != nil {
		u.log.Warnf("Failed to deprovision credential %s of doctor %s: %+v", doctor.UserID, doctor.ID, err)
		return fmt.Errorf("%w: %w", ErrUpstreamDeprovision, err)
	}

	ctx = context.WithoutCancel(ctx)
	affectedRows, err := u.doctorRepo.Delete(ctx, id)
	if err != nil {
		u.log.WithFields(logrus.Fields{
			"doctor_id": doctor.ID,
			"user_id":   doctor.UserID,
		}).Errorf("Failed to delete doctor after its credential was removed: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrDoctorNotFound
	}
	u.reinvalidate(ctx, id)

	if err := u.auditService.LogDelete(ctx, actor(session), entity.AuditActionDoctorDelete, doctorEntityName, id.String(), converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	u.metrics.IncrementDoctorsDeleted()
	u.log.Infof("Doctor %s deleted", doctor.ID)

	return nil
}

// invalidate runs before a write. A write is refused when the cache cannot be
// invalidated, since the old row could then be served until it expires.
func (u *doctorUsecase) invalidate(ctx context.Context, id uuid.UUID) error {
	if err := u.cache.Invalidate(ctx, id); err != nil {
		u.log.Errorf("Failed to invalidate cached doctor %s before write: %+v", id, err)
		return fmt.Errorf("%w: %w", ErrCacheInvalidation, err)
	}
	return nil
}

// reinvalidate runs after a write. The tombstone left by invalidate still covers a
// failure here, so it is only logged.
func (u *doctorUsecase) reinvalidate(ctx context.Context, id uuid.UUID) {
	if err := u.cache.Invalidate(ctx, id); err != nil {
		u.log.Errorf("Failed to invalidate cached doctor %s after write: %+v", id, err)
	}
}

func (u *doctorUsecase) validationError(err error) error {
	return &ValidationError{
		Message: u.validator.FirstError(err),
		Fields:  u.validator.FormatValidationErrors(err),
	}
}

func actor(session entity.Session) *uuid.UUID {
	if session.UserID == uuid.Nil {
		return nil
	}
	id := session.UserID
	return &id
}
