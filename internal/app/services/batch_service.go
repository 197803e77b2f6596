package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
	"gorm.io/gorm"
)

const serialCodeLength = 16

type BatchService struct {
	db             *gorm.DB
	validator      *infrastructures.Validator
	productService *ProductService
}

func NewBatchService(db *gorm.DB, validator *infrastructures.Validator, productService *ProductService) *BatchService {
	return &BatchService{
		db:             db,
		validator:      validator,
		productService: productService,
	}
}

func (s *BatchService) CreateBatch(req *models.BatchCreateRequest) (*models.ProductBatch, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	product, err := s.productService.GetProduct(req.ProductID)
	if err != nil {
		return nil, err
	}

	batch := &models.ProductBatch{
		ProductID:       product.ID,
		BatchNumber:     req.BatchNumber,
		ManufactureDate: req.ManufactureDate,
		ExpiryDate:      req.ExpiryDate,
		Quantity:        req.Quantity,
		Status:          models.BatchStatusPending,
	}

	if err := s.db.Create(batch).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create batch")
	}

	return batch, nil
}

func (s *BatchService) GetBatch(batchId string) (*models.ProductBatch, error) {
	batchUUID, err := uuid.Parse(batchId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid batch ID format")
	}

	var batch models.ProductBatch
	err = s.db.Preload("Product.Manufacturer").Where("id = ?", batchUUID).First(&batch).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Batch not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get batch")
	}

	return &batch, nil
}

func (s *BatchService) GetBatches(pagination *models.PaginationRequest, status *models.BatchStatus, productId *string) (*models.Pagination[[]models.ProductBatch], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.ProductBatch{})
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
	}
	if productId != nil {
		countQuery = countQuery.Where("product_id = ?", *productId)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count batches")
	}

	var batches []models.ProductBatch
	query := s.db.Preload("Product").Order("created_at DESC")

	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if productId != nil {
		query = query.Where("product_id = ?", *productId)
	}

	query = query.Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&batches).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get batches")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.ProductBatch]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      batches,
	}, nil
}

func (s *BatchService) UpdateBatch(batchId string, req *models.BatchUpdateRequest) (*models.ProductBatch, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	batch, err := s.GetBatch(batchId)
	if err != nil {
		return nil, err
	}

	// Approved batches already have issued codes; their dates are frozen
	if batch.Status == models.BatchStatusApproved {
		return nil, errors.NewBadRequestError("Approved batches cannot be modified")
	}

	if req.BatchNumber != nil {
		batch.BatchNumber = *req.BatchNumber
	}
	if req.ManufactureDate != nil {
		batch.ManufactureDate = *req.ManufactureDate
	}
	if req.ExpiryDate != nil {
		batch.ExpiryDate = *req.ExpiryDate
	}

	if !batch.ExpiryDate.After(batch.ManufactureDate) {
		return nil, errors.NewBadRequestError("Expiry date must be after manufacture date")
	}

	if err := s.db.Save(batch).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update batch")
	}

	return batch, nil
}

// ApproveBatch approves a pending batch and issues one verification code per
// unit in a single database transaction. Codes become resolvable by the
// verification engine as soon as the transaction commits.
func (s *BatchService) ApproveBatch(batchId string, approvedBy uuid.UUID) (*models.ProductBatch, error) {
	batch, err := s.GetBatch(batchId)
	if err != nil {
		return nil, err
	}

	if batch.Status != models.BatchStatusPending {
		return nil, errors.NewBadRequestError("Batch is not pending approval")
	}

	now := time.Now()

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	codes := make([]models.VerificationCode, 0, batch.Quantity)
	for i := 0; i < batch.Quantity; i++ {
		serial, err := pkg.GenerateSerialCode(serialCodeLength)
		if err != nil {
			tx.Rollback()
			return nil, errors.NewInternalServerError(err, "Failed to generate verification codes")
		}
		codes = append(codes, models.VerificationCode{
			Code:    serial,
			BatchID: batch.ID,
		})
	}

	if err := tx.CreateInBatches(codes, 1000).Error; err != nil {
		tx.Rollback()
		return nil, errors.NewInternalServerError(err, "Failed to issue verification codes")
	}

	batch.Status = models.BatchStatusApproved
	batch.ApprovedBy = &approvedBy
	batch.ApprovedAt = &now

	if err := tx.Save(batch).Error; err != nil {
		tx.Rollback()
		return nil, errors.NewInternalServerError(err, "Failed to approve batch")
	}

	tx.Commit()
	return batch, nil
}

func (s *BatchService) RejectBatch(batchId string, rejectedBy uuid.UUID) (*models.ProductBatch, error) {
	batch, err := s.GetBatch(batchId)
	if err != nil {
		return nil, err
	}

	if batch.Status != models.BatchStatusPending {
		return nil, errors.NewBadRequestError("Batch is not pending approval")
	}

	now := time.Now()
	batch.Status = models.BatchStatusRejected
	batch.ApprovedBy = &rejectedBy
	batch.ApprovedAt = &now

	if err := s.db.Save(batch).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to reject batch")
	}

	return batch, nil
}

// GetBatchCodes lists the issued codes of a batch for label printing.
func (s *BatchService) GetBatchCodes(batchId string, pagination *models.PaginationRequest) (*models.Pagination[[]models.VerificationCode], error) {
	batch, err := s.GetBatch(batchId)
	if err != nil {
		return nil, err
	}

	if pagination.Limit <= 0 {
		pagination.Limit = 100
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	var totalItems int64
	if err := s.db.Model(&models.VerificationCode{}).Where("batch_id = ?", batch.ID).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count verification codes")
	}

	var codes []models.VerificationCode
	query := s.db.Where("batch_id = ?", batch.ID).Order("created_at ASC").Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&codes).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get verification codes")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.VerificationCode]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      codes,
	}, nil
}
