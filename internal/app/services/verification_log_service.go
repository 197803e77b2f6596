package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"gorm.io/gorm"
)

// AttemptStore is the append-only sink for verification attempt records.
type AttemptStore interface {
	Create(ctx context.Context, entry *models.VerificationLog) error
}

// VerificationLogService writes attempt records and serves the admin
// reporting read side. Rows are never updated or deleted.
type VerificationLogService struct {
	db *gorm.DB
}

func NewVerificationLogService(db *gorm.DB) *VerificationLogService {
	return &VerificationLogService{db: db}
}

func (s *VerificationLogService) Create(ctx context.Context, entry *models.VerificationLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *VerificationLogService) GetLog(logId string) (*models.VerificationLog, error) {
	logUUID, err := uuid.Parse(logId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid verification log ID format")
	}

	var log models.VerificationLog
	err = s.db.Preload("VerificationCode.Batch.Product.Manufacturer").
		Where("id = ?", logUUID).
		First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Verification log not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get verification log")
	}

	return &log, nil
}

func (s *VerificationLogService) GetLogs(pagination *models.PaginationRequest, filter *models.VerificationLogFilter) (*models.Pagination[[]models.VerificationLog], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	applyFilter := func(query *gorm.DB) *gorm.DB {
		if filter == nil {
			return query
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.From != nil {
			query = query.Where("verified_at >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("verified_at <= ?", *filter.To)
		}
		return query
	}

	var totalItems int64
	if err := applyFilter(s.db.Model(&models.VerificationLog{})).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count verification logs")
	}

	var logs []models.VerificationLog
	query := applyFilter(s.db.Preload("VerificationCode.Batch.Product.Manufacturer")).
		Order("verified_at DESC").
		Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get verification logs")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.VerificationLog]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      logs,
	}, nil
}
