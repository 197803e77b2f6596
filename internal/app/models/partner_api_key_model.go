package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type APIKeyScope string

const (
	APIKeyScopeRead   APIKeyScope = "READ"
	APIKeyScopeWrite  APIKeyScope = "WRITE"
	APIKeyScopeVerify APIKeyScope = "VERIFY"
	APIKeyScopeIssue  APIKeyScope = "ISSUE"
)

// PartnerAPIKey authenticates integrator partners (pharmacy chains,
// distributors) calling the verification API server-to-server.
type PartnerAPIKey struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ManufacturerID uuid.UUID      `json:"manufacturer_id"`
	KeyName        string         `json:"key_name"`
	APIKey         string         `gorm:"uniqueIndex" json:"api_key"`
	Prefix         string         `json:"prefix"`
	Scopes         []APIKeyScope  `gorm:"serializer:json" json:"scopes"`
	RateLimit      int            `json:"rate_limit"`
	LastUsedAt     *time.Time     `json:"last_used_at,omitempty"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// PartnerAPIKeyUsage records one authenticated partner request.
type PartnerAPIKeyUsage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	APIKeyID   uuid.UUID `json:"api_key_id"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	StatusCode int       `json:"status_code"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type PartnerAPIKeyCreateRequest struct {
	ManufacturerID string        `json:"manufacturer_id" validate:"required,uuid"`
	KeyName        string        `json:"key_name" validate:"required,max=100"`
	Scopes         []APIKeyScope `json:"scopes" validate:"required,min=1,dive,oneof=READ WRITE VERIFY ISSUE"`
	RateLimit      int           `json:"rate_limit" validate:"required,min=1,max=10000"`
	ExpiresAt      *time.Time    `json:"expires_at,omitempty"`
}

// HasScope checks if the key carries a specific scope
func (k *PartnerAPIKey) HasScope(scope APIKeyScope) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IsExpired checks if the key is past its expiry
func (k *PartnerAPIKey) IsExpired() bool {
	if k.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*k.ExpiresAt)
}

// IsActive checks if the key is neither revoked nor expired
func (k *PartnerAPIKey) IsActive() bool {
	return !k.DeletedAt.Valid && !k.IsExpired()
}
