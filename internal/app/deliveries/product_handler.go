package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/app/services"
)

type ProductHandler struct {
	productService *services.ProductService
	authMiddleware *middlewares.AuthMiddleware
}

func NewProductHandler(productService *services.ProductService, authMiddleware *middlewares.AuthMiddleware) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		authMiddleware: authMiddleware,
	}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productGroup := router.Group("/products")

	productGroup.Post("/", h.authMiddleware.AuthUser, h.CreateProduct)
	productGroup.Get("/", h.authMiddleware.AuthUser, h.GetProducts)
	productGroup.Get("/:id", h.authMiddleware.AuthUser, h.GetProduct)
	productGroup.Patch("/:id", h.authMiddleware.AuthUser, h.UpdateProduct)
	productGroup.Delete("/:id", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.DeleteProduct)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	product, err := h.productService.GetProduct(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}

	var manufacturerId *string
	if idStr := c.Query("manufacturer_id"); idStr != "" {
		manufacturerId = &idStr
	}

	products, err := h.productService.GetProducts(&models.PaginationRequest{Page: page, Limit: limit}, manufacturerId)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, products)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	err := h.productService.DeleteProduct(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
