package models

import (
	"github.com/google/uuid"
)

type IdentityRole string

const (
	IdentityRoleAdmin        IdentityRole = "ADMIN"
	IdentityRoleManufacturer IdentityRole = "MANUFACTURER"
	IdentityRoleInspector    IdentityRole = "INSPECTOR"
	IdentityRoleConsumer     IdentityRole = "CONSUMER"
)

// IdentityUser is the user profile returned by the external identity service.
type IdentityUser struct {
	ID       uuid.UUID    `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Role     IdentityRole `json:"role"`
}
