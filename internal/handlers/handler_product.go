package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bingopos/bingo_backend/internal/apperrors"
	portssvc "github.com/bingopos/bingo_backend/internal/core/ports/services"
	"github.com/bingopos/bingo_backend/internal/dto"
	"github.com/bingopos/bingo_backend/internal/middleware"
)

// productHandler handles HTTP requests related to products.
type productHandler struct {
	productService portssvc.ProductSvcFacade
}

// newProductHandler creates a new productHandler.
func newProductHandler(ps portssvc.ProductSvcFacade) *productHandler {
	return &productHandler{
		productService: ps,
	}
}

// registerProductRoutes registers all product-related routes.
func registerProductRoutes(rg *gin.RouterGroup, productService portssvc.ProductSvcFacade) {
	h := newProductHandler(productService)

	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
		products.PUT("/:id", h.updateProduct)
		products.DELETE("/:id", h.deleteProduct)
	}
}

// createProduct godoc
// @Summary Create a new product
// @Description Adds a product to the catalog
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create product"
// @Security BearerAuth
// @Router /products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create product", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Description Retrieves a paginated product list, optionally filtered by type
// @Tags products
// @Produce  json
// @Param   type query string false "Filter by product type"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListProductsResponse
// @Failure 500 {object} map[string]string "Failed to list products"
// @Security BearerAuth
// @Router /products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	products, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list products", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, dto.ListProductsResponse{Products: dto.ToListProductResponse(products)})
}

// getProduct godoc
// @Summary Get a product by ID
// @Description Retrieves details for a specific product
// @Tags products
// @Produce  json
// @Param   id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to retrieve product"
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("id")

	product, err := h.productService.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("Failed to get product", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// updateProduct godoc
// @Summary Update a product
// @Description Applies a partial update to a catalog entry; existing orders keep their snapshotted prices
// @Tags products
// @Accept  json
// @Produce  json
// @Param   id path string true "Product ID"
// @Param   product body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to update product"
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *productHandler) updateProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("id")

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), productID, req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update product", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// deleteProduct godoc
// @Summary Delete a product
// @Description Removes a product from the catalog
// @Tags products
// @Produce  json
// @Param   id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to delete product"
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *productHandler) deleteProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("id")

	if err := h.productService.DeleteProduct(c.Request.Context(), productID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("Failed to delete product", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}
