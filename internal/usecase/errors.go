package usecase

import "errors"

var (
	ErrDoctorNotFound              = errors.New("doctor not found")
	ErrNoDoctorsFound              = errors.New("no doctors found for the given clinic and specialty")
	ErrAuthenticatedDoctorNotFound = errors.New("authenticated doctor not found")
	ErrNationalIDExists            = errors.New("national ID already exists")
	ErrUserIDExists                = errors.New("user ID already exists")
	ErrUpstreamProvision           = errors.New("failed to provision credential")
	ErrUpstreamDeprovision         = errors.New("failed to deprovision credential")
	ErrCacheInvalidation           = errors.New("failed to invalidate cached doctor")
	ErrAuditLogNotFound            = errors.New("audit log not found")
)

// ValidationError reports the first rule a request broke, with every field error kept in Fields.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}
