package repository

import (
	"context"
	"errors"
	"fmt"

	"staff-service/internal/domain/entity"
	domainRepo "staff-service/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if err := r.db.WithContext(ctx).Create(doctor).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *doctorRepository) FindByNationalID(ctx context.Context, nationalID string) (*entity.Doctor, error) {
	return r.findOne(ctx, "national_id = ?", nationalID)
}

func (r *doctorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *doctorRepository) FindByClinicAndSpecialty(ctx context.Context, clinicID uuid.UUID, specialty *entity.Specialty) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := r.db.WithContext(ctx).Where("clinic_id = ?", clinicID)
	if specialty != nil {
		query = query.Where("specialty = ?", *specialty)
	}
	if err := query.Order("surname, name").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// UpdateSpecialty runs a single UPDATE ... RETURNING so the row is never re-created
// if it was deleted concurrently.
func (r *doctorRepository) UpdateSpecialty(ctx context.Context, id uuid.UUID, specialty entity.Specialty) (*entity.Doctor, error) {
	if !specialty.IsValid() {
		return nil, fmt.Errorf("%w: %s is not a valid specialty", entity.ErrInvalidDoctor, specialty)
	}

	var doctor entity.Doctor
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&doctor).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Update("specialty", specialty)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &doctor, nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Doctor{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Doctor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *doctorRepository) findOne(ctx context.Context, query string, arg interface{}) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := r.db.WithContext(ctx).Where(query, arg).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}
