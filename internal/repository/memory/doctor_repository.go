package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"staff-service/internal/domain/entity"
	domainRepo "staff-service/internal/domain/repository"

	"github.com/google/uuid"
)

// DoctorRepository keeps doctors in memory and enforces the same unique keys and
// field rules as the PostgreSQL schema. Used for local runs and tests.
type DoctorRepository struct {
	mu      sync.RWMutex
	doctors map[uuid.UUID]entity.Doctor
}

func NewDoctorRepository() *DoctorRepository {
	return &DoctorRepository{doctors: make(map[uuid.UUID]entity.Doctor)}
}

var _ domainRepo.DoctorRepository = (*DoctorRepository)(nil)

// Create, UpdateSpecialty and Delete fail on a cancelled context like a database round trip.
func (r *DoctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doctor.BeforeCreate(nil); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[doctor.ID]; ok {
		return fmt.Errorf("%w: id", domainRepo.ErrDuplicateKey)
	}
	for _, existing := range r.doctors {
		if existing.NationalID == doctor.NationalID {
			return domainRepo.ErrDuplicateNationalID
		}
		if existing.UserID == doctor.UserID {
			return domainRepo.ErrDuplicateUserID
		}
	}

	now := time.Now().UTC()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *DoctorRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if doctor, ok := r.doctors[id]; ok {
		return &doctor, nil
	}
	return nil, nil
}

func (r *DoctorRepository) FindByNationalID(_ context.Context, nationalID string) (*entity.Doctor, error) {
	return r.find(func(d entity.Doctor) bool { return d.NationalID == nationalID }), nil
}

func (r *DoctorRepository) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Doctor, error) {
	return r.find(func(d entity.Doctor) bool { return d.UserID == userID }), nil
}

func (r *DoctorRepository) FindByClinicAndSpecialty(_ context.Context, clinicID uuid.UUID, specialty *entity.Specialty) ([]entity.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var doctors []entity.Doctor
	for _, d := range r.doctors {
		if d.ClinicID != clinicID {
			continue
		}
		if specialty != nil && d.Specialty != *specialty {
			continue
		}
		doctors = append(doctors, d)
	}
	sort.Slice(doctors, func(i, j int) bool {
		if doctors[i].Surname != doctors[j].Surname {
			return doctors[i].Surname < doctors[j].Surname
		}
		return doctors[i].Name < doctors[j].Name
	})
	return doctors, nil
}

func (r *DoctorRepository) UpdateSpecialty(ctx context.Context, id uuid.UUID, specialty entity.Specialty) (*entity.Doctor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !specialty.IsValid() {
		return nil, fmt.Errorf("%w: %s is not a valid specialty", entity.ErrInvalidDoctor, specialty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doctor, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	doctor.Specialty = specialty
	doctor.UpdatedAt = time.Now().UTC()
	r.doctors[id] = doctor
	return &doctor, nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.doctors[id]; !ok {
		return 0, nil
	}
	delete(r.doctors, id)
	return 1, nil
}

func (r *DoctorRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.doctors)), nil
}

func (r *DoctorRepository) find(match func(entity.Doctor) bool) *entity.Doctor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.doctors {
		if match(d) {
			return &d
		}
	}
	return nil
}
