package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
	"gorm.io/gorm"
)

type ManufacturerService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewManufacturerService(db *gorm.DB, validator *infrastructures.Validator) *ManufacturerService {
	return &ManufacturerService{
		db:        db,
		validator: validator,
	}
}

func (s *ManufacturerService) CreateManufacturer(req *models.ManufacturerCreateRequest, ownerUserId *uuid.UUID) (*models.Manufacturer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Check if license number already registered
	var existing models.Manufacturer
	err := s.db.Where("license_number = ?", req.LicenseNumber).First(&existing).Error
	if err == nil {
		return nil, errors.NewBadRequestError("License number already registered")
	}

	manufacturer := &models.Manufacturer{
		CompanyName:   req.CompanyName,
		LicenseNumber: req.LicenseNumber,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		Country:       req.Country,
		Status:        models.ManufacturerStatusPending,
		OwnerUserID:   ownerUserId,
	}

	if err := s.db.Create(manufacturer).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create manufacturer")
	}

	return manufacturer, nil
}

func (s *ManufacturerService) GetManufacturer(manufacturerId string) (*models.Manufacturer, error) {
	manufacturerUUID, err := uuid.Parse(manufacturerId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid manufacturer ID format")
	}

	var manufacturer models.Manufacturer
	err = s.db.Where("id = ?", manufacturerUUID).First(&manufacturer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Manufacturer not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get manufacturer")
	}

	return &manufacturer, nil
}

func (s *ManufacturerService) GetManufacturers(pagination *models.PaginationRequest, status *models.ManufacturerStatus) (*models.Pagination[[]models.Manufacturer], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Manufacturer{})
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count manufacturers")
	}

	var manufacturers []models.Manufacturer
	query := s.db.Order("created_at DESC")

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	query = query.Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&manufacturers).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get manufacturers")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Manufacturer]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      manufacturers,
	}, nil
}

func (s *ManufacturerService) UpdateManufacturer(manufacturerId string, req *models.ManufacturerUpdateRequest) (*models.Manufacturer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	manufacturer, err := s.GetManufacturer(manufacturerId)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		manufacturer.CompanyName = *req.CompanyName
	}
	if req.ContactEmail != nil {
		manufacturer.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		manufacturer.ContactPhone = req.ContactPhone
	}
	if req.Country != nil {
		manufacturer.Country = req.Country
	}

	if err := s.db.Save(manufacturer).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update manufacturer")
	}

	return manufacturer, nil
}

// SetManufacturerStatus moves a manufacturer through the admin approval flow.
func (s *ManufacturerService) SetManufacturerStatus(manufacturerId string, status models.ManufacturerStatus) (*models.Manufacturer, error) {
	manufacturer, err := s.GetManufacturer(manufacturerId)
	if err != nil {
		return nil, err
	}

	if manufacturer.Status == status {
		return manufacturer, nil
	}

	manufacturer.Status = status
	manufacturer.UpdatedAt = time.Now()

	if err := s.db.Save(manufacturer).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update manufacturer status")
	}

	return manufacturer, nil
}

func (s *ManufacturerService) DeleteManufacturer(manufacturerId string) error {
	manufacturer, err := s.GetManufacturer(manufacturerId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(manufacturer).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete manufacturer")
	}

	return nil
}
