package entity

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInvalidDoctor is returned by the storage hooks when a row would break a field rule.
var ErrInvalidDoctor = errors.New("invalid doctor")

// NationalIDLetters is the lookup table for the national ID checksum letter.
const NationalIDLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

var nationalIDPattern = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)

// Doctor represents a clinic staff member backed by a credential in the auth service
type Doctor struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Surname    string    `gorm:"type:varchar(255);not null" json:"surname"`
	Specialty  Specialty `gorm:"type:varchar(50);not null;index" json:"specialty"`
	NationalID string    `gorm:"column:national_id;type:char(9);uniqueIndex:uq_doctors_national_id;not null" json:"dni"`
	ClinicID   uuid.UUID `gorm:"type:uuid;not null;index" json:"clinicId"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_doctors_user_id;not null" json:"userId"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// BeforeCreate assigns the id and checks field rules before the row reaches the database.
func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return d.check()
}

// BeforeUpdate re-checks field rules on every save.
func (d *Doctor) BeforeUpdate(tx *gorm.DB) error {
	return d.check()
}

func (d *Doctor) check() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidDoctor)
	case strings.TrimSpace(d.Surname) == "":
		return fmt.Errorf("%w: surname is required", ErrInvalidDoctor)
	case !d.Specialty.IsValid():
		return fmt.Errorf("%w: %s is not a valid specialty", ErrInvalidDoctor, d.Specialty)
	case !ValidNationalID(d.NationalID):
		return fmt.Errorf("%w: %s is not a valid DNI number!", ErrInvalidDoctor, d.NationalID)
	case d.ClinicID == uuid.Nil:
		return fmt.Errorf("%w: clinicId is required", ErrInvalidDoctor)
	case d.UserID == uuid.Nil:
		return fmt.Errorf("%w: userId is required", ErrInvalidDoctor)
	}
	return nil
}

// NationalIDFormat reports whether s is eight digits followed by an uppercase letter.
func NationalIDFormat(s string) bool {
	return nationalIDPattern.MatchString(s)
}

// NationalIDLetter returns the checksum letter for the numeric part of a national ID.
func NationalIDLetter(number int) byte {
	return NationalIDLetters[number%len(NationalIDLetters)]
}

// ValidNationalID checks both the format and the checksum letter.
func ValidNationalID(s string) bool {
	if !NationalIDFormat(s) {
		return false
	}
	number, err := strconv.Atoi(s[:8])
	if err != nil {
		return false
	}
	return NationalIDLetter(number) == s[8]
}
