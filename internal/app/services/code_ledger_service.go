package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"gorm.io/gorm"
)

// CodeLedger is the verification engine's view of the issued-code store.
// FindEntry returns (nil, nil) for unknown codes: an unknown code is a
// classification result, not an error.
type CodeLedger interface {
	FindEntry(ctx context.Context, code string) (*models.LedgerEntry, error)

	// MarkUsed conditionally flips a code to used. It reports false when the
	// code was already used, which happens when a concurrent request won the
	// redemption race.
	MarkUsed(ctx context.Context, codeID uuid.UUID, usedAt time.Time) (bool, error)
}

type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

func (s *LedgerService) FindEntry(ctx context.Context, code string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := s.db.WithContext(ctx).
		Table("verification_codes").
		Select(`verification_codes.id AS code_id,
			verification_codes.code,
			verification_codes.is_used,
			verification_codes.used_at,
			product_batches.id AS batch_id,
			product_batches.batch_number,
			product_batches.manufacture_date,
			product_batches.expiry_date,
			products.name AS product_name,
			products.category,
			manufacturers.company_name AS manufacturer_name`).
		Joins("JOIN product_batches ON product_batches.id = verification_codes.batch_id").
		Joins("JOIN products ON products.id = product_batches.product_id").
		Joins("JOIN manufacturers ON manufacturers.id = products.manufacturer_id").
		Where("verification_codes.code = ?", code).
		Take(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// MarkUsed is the single ordering-sensitive write of the verification flow.
// The WHERE clause on is_used makes the update a compare-and-swap: under
// concurrent requests for the same code exactly one update reports a row.
func (s *LedgerService) MarkUsed(ctx context.Context, codeID uuid.UUID, usedAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.VerificationCode{}).
		Where("id = ? AND is_used = ?", codeID, false).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": usedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
