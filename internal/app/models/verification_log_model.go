package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationLog is the immutable audit record of one verification attempt.
// Exactly one row is written per attempt, success or failure.
type VerificationLog struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Status             VerificationStatus `json:"status"`
	VerificationCodeID *uuid.UUID         `json:"verification_code_id,omitempty"`
	UserID             *uuid.UUID         `json:"user_id,omitempty"`
	IPAddress          string             `json:"ip_address"`
	DeviceInfo         string             `json:"device_info"`
	Location           *string            `json:"location,omitempty"`
	VerifiedAt         time.Time          `json:"verified_at"`

	VerificationCode *VerificationCode `gorm:"foreignKey:VerificationCodeID" json:"verification_code,omitempty"`
}

// VerificationLogDetail is the admin read model for a single attempt, with
// the acting user resolved from the identity provider when one was attached.
type VerificationLogDetail struct {
	VerificationLog
	User *IdentityUser `json:"user,omitempty"`
}

type VerificationLogFilter struct {
	Status *VerificationStatus `json:"status,omitempty" validate:"omitempty,oneof=VALID EXPIRED USED FAKE"`
	From   *time.Time          `json:"from,omitempty"`
	To     *time.Time          `json:"to,omitempty"`
}
