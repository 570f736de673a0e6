package entity

// Role names shared with the auth service
const (
	RoleClinicAdmin = "clinicadmin"
	RoleDoctor      = "doctor"
)
