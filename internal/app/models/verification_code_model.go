package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode is one issued, redeemable-once code bound to a batch.
// Codes are created in bulk when a batch is approved and are never deleted.
type VerificationCode struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code      string     `gorm:"uniqueIndex" json:"code"`
	BatchID   uuid.UUID  `json:"batch_id"`
	IsUsed    bool       `json:"is_used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Batch *ProductBatch `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
}

// LedgerEntry is the flat read model the verification engine works with:
// one joined row carrying exactly the code, batch, product and manufacturer
// fields needed for classification and response shaping.
type LedgerEntry struct {
	CodeID           uuid.UUID       `json:"code_id"`
	Code             string          `json:"code"`
	IsUsed           bool            `json:"is_used"`
	UsedAt           *time.Time      `json:"used_at,omitempty"`
	BatchID          uuid.UUID       `json:"batch_id"`
	BatchNumber      string          `json:"batch_number"`
	ManufactureDate  time.Time       `json:"manufacture_date"`
	ExpiryDate       time.Time       `json:"expiry_date"`
	ProductName      string          `json:"product_name"`
	Category         ProductCategory `json:"category"`
	ManufacturerName string          `json:"manufacturer_name"`
}
