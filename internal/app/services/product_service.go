package services

import (
	"github.com/google/uuid"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
	"gorm.io/gorm"
)

type ProductService struct {
	db                  *gorm.DB
	validator           *infrastructures.Validator
	manufacturerService *ManufacturerService
}

func NewProductService(db *gorm.DB, validator *infrastructures.Validator, manufacturerService *ManufacturerService) *ProductService {
	return &ProductService{
		db:                  db,
		validator:           validator,
		manufacturerService: manufacturerService,
	}
}

func (s *ProductService) CreateProduct(req *models.ProductCreateRequest) (*models.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	manufacturer, err := s.manufacturerService.GetManufacturer(req.ManufacturerID)
	if err != nil {
		return nil, err
	}

	// Only approved manufacturers may register products
	if manufacturer.Status != models.ManufacturerStatusApproved {
		return nil, errors.NewForbiddenError("Manufacturer is not approved")
	}

	var existing models.Product
	err = s.db.Where("product_code = ?", req.ProductCode).First(&existing).Error
	if err == nil {
		return nil, errors.NewBadRequestError("Product code already exists")
	}

	product := &models.Product{
		ManufacturerID: manufacturer.ID,
		Name:           req.Name,
		ProductCode:    req.ProductCode,
		Category:       req.Category,
		UnitPrice:      req.UnitPrice,
		Description:    req.Description,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create product")
	}

	return product, nil
}

func (s *ProductService) GetProduct(productId string) (*models.Product, error) {
	productUUID, err := uuid.Parse(productId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid product ID format")
	}

	var product models.Product
	err = s.db.Where("id = ?", productUUID).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Product not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get product")
	}

	return &product, nil
}

func (s *ProductService) GetProducts(pagination *models.PaginationRequest, manufacturerId *string) (*models.Pagination[[]models.Product], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Product{})
	if manufacturerId != nil {
		countQuery = countQuery.Where("manufacturer_id = ?", *manufacturerId)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count products")
	}

	var products []models.Product
	query := s.db.Preload("Manufacturer").Order("created_at DESC")

	if manufacturerId != nil {
		query = query.Where("manufacturer_id = ?", *manufacturerId)
	}

	query = query.Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get products")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Product]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      products,
	}, nil
}

func (s *ProductService) UpdateProduct(productId string, req *models.ProductUpdateRequest) (*models.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(productId)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.UnitPrice != nil {
		product.UnitPrice = *req.UnitPrice
	}
	if req.Description != nil {
		product.Description = req.Description
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update product")
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(productId string) error {
	product, err := s.GetProduct(productId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(product).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete product")
	}

	return nil
}
