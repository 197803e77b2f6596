package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ManufacturerStatus string

const (
	ManufacturerStatusPending  ManufacturerStatus = "PENDING"
	ManufacturerStatusApproved ManufacturerStatus = "APPROVED"
	ManufacturerStatusRejected ManufacturerStatus = "REJECTED"
)

type Manufacturer struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyName   string             `json:"company_name"`
	LicenseNumber string             `gorm:"uniqueIndex" json:"license_number"`
	ContactEmail  string             `json:"contact_email"`
	ContactPhone  *string            `json:"contact_phone,omitempty"`
	Country       *string            `json:"country,omitempty"`
	Status        ManufacturerStatus `json:"status"`
	OwnerUserID   *uuid.UUID         `json:"owner_user_id,omitempty"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"deleted_at"`
}

type ManufacturerCreateRequest struct {
	CompanyName   string  `json:"company_name" validate:"required,max=255"`
	LicenseNumber string  `json:"license_number" validate:"required,max=100"`
	ContactEmail  string  `json:"contact_email" validate:"required,email"`
	ContactPhone  *string `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	Country       *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

type ManufacturerUpdateRequest struct {
	CompanyName  *string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	Country      *string `json:"country,omitempty" validate:"omitempty,max=100"`
}
