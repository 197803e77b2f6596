package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCategory string

const (
	ProductCategoryPrescription ProductCategory = "RX"
	ProductCategoryOTC          ProductCategory = "OTC"
	ProductCategorySupplement   ProductCategory = "SUP"
	ProductCategoryVaccine      ProductCategory = "VAC"
	ProductCategoryHerbal       ProductCategory = "HERB"
)

type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ManufacturerID uuid.UUID       `json:"manufacturer_id"`
	Name           string          `json:"name"`
	ProductCode    string          `gorm:"uniqueIndex" json:"product_code"`
	Category       ProductCategory `json:"category"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2)" json:"unit_price"`
	Description    *string         `json:"description,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at"`

	Manufacturer *Manufacturer `gorm:"foreignKey:ManufacturerID" json:"manufacturer,omitempty"`
}

type ProductCreateRequest struct {
	ManufacturerID string          `json:"manufacturer_id" validate:"required,uuid"`
	Name           string          `json:"name" validate:"required,max=255"`
	ProductCode    string          `json:"product_code" validate:"required,max=50"`
	Category       ProductCategory `json:"category" validate:"required,oneof=RX OTC SUP VAC HERB"`
	UnitPrice      decimal.Decimal `json:"unit_price" validate:"required"`
	Description    *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type ProductUpdateRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Category    *ProductCategory `json:"category,omitempty" validate:"omitempty,oneof=RX OTC SUP VAC HERB"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
}
