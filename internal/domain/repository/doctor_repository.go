package repository

import (
	"context"

	"staff-service/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorRepository persists doctors. Lookups return nil, nil when nothing matches.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindByNationalID(ctx context.Context, nationalID string) (*entity.Doctor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error)
	// FindByClinicAndSpecialty returns active and inactive doctors; a nil specialty matches all.
	FindByClinicAndSpecialty(ctx context.Context, clinicID uuid.UUID, specialty *entity.Specialty) ([]entity.Doctor, error)
	UpdateSpecialty(ctx context.Context, id uuid.UUID, specialty entity.Specialty) (*entity.Doctor, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}
