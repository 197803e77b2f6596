package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
	"gorm.io/gorm"
)

const apiKeyPrefix = "vpk"

// PartnerAPIKeyService manages server-to-server keys for integrator
// partners.
type PartnerAPIKeyService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewPartnerAPIKeyService(db *gorm.DB, validator *infrastructures.Validator) *PartnerAPIKeyService {
	return &PartnerAPIKeyService{db: db, validator: validator}
}

func (s *PartnerAPIKeyService) CreateAPIKey(ctx context.Context, req *models.PartnerAPIKeyCreateRequest) (*models.PartnerAPIKey, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	manufacturerUUID, err := uuid.Parse(req.ManufacturerID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid manufacturer ID format")
	}

	apiKey, err := pkg.GenerateAPIKey(apiKeyPrefix)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to generate API key")
	}

	key := &models.PartnerAPIKey{
		ManufacturerID: manufacturerUUID,
		KeyName:        req.KeyName,
		APIKey:         apiKey,
		Prefix:         apiKeyPrefix,
		Scopes:         req.Scopes,
		RateLimit:      req.RateLimit,
		ExpiresAt:      req.ExpiresAt,
	}

	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create API key")
	}

	return key, nil
}

func (s *PartnerAPIKeyService) GetAPIKey(ctx context.Context, apiKey string) (*models.PartnerAPIKey, error) {
	var key models.PartnerAPIKey
	err := s.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("API key not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get API key")
	}

	return &key, nil
}

func (s *PartnerAPIKeyService) GetAPIKeysByManufacturer(ctx context.Context, manufacturerId string) ([]models.PartnerAPIKey, error) {
	manufacturerUUID, err := uuid.Parse(manufacturerId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid manufacturer ID format")
	}

	var keys []models.PartnerAPIKey
	err = s.db.WithContext(ctx).
		Where("manufacturer_id = ?", manufacturerUUID).
		Order("created_at DESC").
		Find(&keys).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get API keys")
	}

	return keys, nil
}

func (s *PartnerAPIKeyService) RevokeAPIKey(ctx context.Context, keyId string) error {
	keyUUID, err := uuid.Parse(keyId)
	if err != nil {
		return errors.NewBadRequestError("Invalid API key ID format")
	}

	result := s.db.WithContext(ctx).Delete(&models.PartnerAPIKey{}, "id = ?", keyUUID)
	if result.Error != nil {
		return errors.NewInternalServerError(result.Error, "Failed to revoke API key")
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("API key not found")
	}

	return nil
}

// LogAPIKeyUsage records one authenticated request and bumps last_used_at.
func (s *PartnerAPIKeyService) LogAPIKeyUsage(ctx context.Context, usage *models.PartnerAPIKeyUsage) error {
	if err := s.db.WithContext(ctx).Create(usage).Error; err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(&models.PartnerAPIKey{}).
		Where("id = ?", usage.APIKeyID).
		Update("last_used_at", time.Now()).Error
}
