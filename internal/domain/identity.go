package domain

import "github.com/google/uuid"

// Role is a trainer's authorization level.
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleAdmin
}

// Identity is the verified caller of a service operation.
// A nil *Identity means the caller is not authenticated.
type Identity struct {
	TrainerID uuid.UUID
	Role      Role
}

// IsAdmin reports whether the identity holds the elevated role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// CanActFor reports whether the identity may read or write data owned by trainerID.
func (i *Identity) CanActFor(trainerID uuid.UUID) bool {
	if i == nil {
		return false
	}
	return i.IsAdmin() || i.TrainerID == trainerID
}
