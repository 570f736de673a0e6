// Command seed loads a fixed set of doctors for local development. The user ids
// point at accounts the auth service's own seed creates; no credential is provisioned here.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staff-service/cmd/bootstrap"
	"staff-service/config"
	"staff-service/internal/domain/entity"
	domainRepo "staff-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var sampleDoctors = []entity.Doctor{
	{
		ID:         uuid.MustParse("6a86e820-e108-4a71-8f10-57c3e0ccd0ac"),
		Name:       "clinic",
		Surname:    "admin",
		Specialty:  entity.SpecialtyCardiology,
		NationalID: "10000004H",
		ClinicID:   uuid.MustParse("27163ac7-4f4d-4669-a0c1-4b8538405475"),
		UserID:     uuid.MustParse("27163ac7-4f4d-4669-a0c1-4b8538405475"),
		Active:     true,
	},
	{
		ID:         uuid.MustParse("fea82b90-c146-4ea6-91b3-85a73c82e259"),
		Name:       "Doctor",
		Surname:    "First",
		Specialty:  entity.SpecialtyNeurology,
		NationalID: "64781738F",
		ClinicID:   uuid.MustParse("27163ac7-4f4d-4669-a0c1-4b8538405475"),
		UserID:     uuid.MustParse("af1520a8-2d04-441e-ba19-aef5faf45dc8"),
		Active:     true,
	},
	{
		ID:         uuid.MustParse("a1ac971e-7188-4eaa-859c-7b2249e3c46b"),
		Name:       "Doctor",
		Surname:    "Second",
		Specialty:  entity.SpecialtyNeurology,
		NationalID: "20060493P",
		ClinicID:   uuid.MustParse("5b431574-d2ab-41d3-b1dd-84b06f2bd1a0"),
		UserID:     uuid.MustParse("679f55e3-a3cd-4a47-aebd-13038c1528a0"),
		Active:     true,
	},
}

func main() {
	if err := run(); err != nil {
		logrus.Fatalf("Seed failed: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := bootstrap.SetupLogger(cfg.App)

	if cfg.DB.Driver == config.DriverMemory {
		return errors.New("seeding the in-memory store has no effect, set DB_DRIVER=postgres")
	}

	stores, db, err := bootstrap.OpenStores(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := seedDoctors(ctx, log, stores.Doctors, sampleDoctors)
	if err != nil {
		return err
	}

	total, err := stores.Doctors.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count doctors: %w", err)
	}
	log.WithFields(logrus.Fields{"created": created, "total": total}).Info("Seed complete")
	return nil
}

// seedDoctors inserts each doctor, skipping ones whose keys already exist.
func seedDoctors(ctx context.Context, log *logrus.Logger, repo domainRepo.DoctorRepository, doctors []entity.Doctor) (int, error) {
	created := 0
	for _, sample := range doctors {
		doctor := sample
		err := repo.Create(ctx, &doctor)
		switch {
		case errors.Is(err, domainRepo.ErrDuplicateKey):
			log.Infof("Doctor %s already present, skipping", doctor.NationalID)
		case err != nil:
			return created, fmt.Errorf("failed to seed doctor %s: %w", doctor.NationalID, err)
		default:
			created++
		}
	}
	return created, nil
}
