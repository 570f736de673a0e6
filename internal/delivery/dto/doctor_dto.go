package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterDoctorRequest field order is the order validation rules are reported in.
type RegisterDoctorRequest struct {
	Name      string `json:"name" validate:"required,notblank"`
	Surname   string `json:"surname" validate:"required,notblank"`
	Specialty string `json:"specialty" validate:"required,specialty"`
	DNI       string `json:"dni" validate:"required,dni,dniletter"`
	ClinicID  string `json:"clinicId" validate:"required,uuid"`
	Password  string `json:"password" validate:"required,min=8,max=32,password"`
	Email     string `json:"email" validate:"required,email"`
}

type UpdateSpecialtyRequest struct {
	Specialty string `json:"specialty" validate:"required,specialty"`
}

// Response DTOs

type DoctorResponse struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Specialty string    `json:"specialty"`
	DNI       string    `json:"dni"`
	ClinicID  uuid.UUID `json:"clinicId"`
	UserID    uuid.UUID `json:"userId"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdateSpecialtyResponse struct {
	Message string          `json:"message"`
	Doctor  *DoctorResponse `json:"doctor"`
}
