package repository

import (
	"errors"
	"fmt"
	"strings"

	domainRepo "staff-service/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// translateError maps unique index violations to the domain duplicate errors and
// leaves every other error untouched.
func translateError(err error) error {
	switch {
	case isDuplicateKeyError(err, "national_id"):
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicateNationalID, err)
	case isDuplicateKeyError(err, "user_id"):
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicateUserID, err)
	case isDuplicateKeyError(err, ""):
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicateKey, err)
	}
	return err
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// whose constraint name contains constraintName
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
