package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchStatus string

const (
	BatchStatusPending  BatchStatus = "PENDING"
	BatchStatusApproved BatchStatus = "APPROVED"
	BatchStatusRejected BatchStatus = "REJECTED"
)

type ProductBatch struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID       uuid.UUID      `json:"product_id"`
	BatchNumber     string         `json:"batch_number"`
	ManufactureDate time.Time      `json:"manufacture_date"`
	ExpiryDate      time.Time      `json:"expiry_date"`
	Quantity        int            `json:"quantity"`
	Status          BatchStatus    `json:"status"`
	ApprovedBy      *uuid.UUID     `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

type BatchCreateRequest struct {
	ProductID       string    `json:"product_id" validate:"required,uuid"`
	BatchNumber     string    `json:"batch_number" validate:"required,max=100"`
	ManufactureDate time.Time `json:"manufacture_date" validate:"required"`
	ExpiryDate      time.Time `json:"expiry_date" validate:"required,gtfield=ManufactureDate"`
	Quantity        int       `json:"quantity" validate:"required,min=1,max=100000"`
}

type BatchUpdateRequest struct {
	BatchNumber     *string    `json:"batch_number,omitempty" validate:"omitempty,max=100"`
	ManufactureDate *time.Time `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
}
