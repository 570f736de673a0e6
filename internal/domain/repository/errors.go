package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when a write breaks a unique index.
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrDuplicateNationalID = fmt.Errorf("%w: national_id", ErrDuplicateKey)
	ErrDuplicateUserID     = fmt.Errorf("%w: user_id", ErrDuplicateKey)
)
