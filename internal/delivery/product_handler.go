package delivery

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/usecase"
)

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter, identify, admin gin.HandlerFunc) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/count", h.CountProducts)
		products.POST("/filter", h.FilterProducts)
		products.GET("/search/:term", h.SearchProducts)
		products.GET("/related/:productId/:categoryId", h.GetRelatedProducts)
		products.GET("/photo/:id", h.GetProductPhoto)
		products.GET("/:slug", h.GetProductBySlug)
		products.POST("", identify, admin, h.CreateProduct)
		products.PUT("/:id", identify, admin, h.UpdateProduct)
		products.DELETE("/:id", identify, admin, h.DeleteProduct)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		h.log.Warnf("Invalid page parameter '%s', using page 1", pageStr)
		page = 1
	}

	products, err := h.useCase.ListProducts(page)
	if err != nil {
		h.log.Errorf("Failed to list products for page %d: %v", page, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found", []domain.Product{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) CountProducts(c *gin.Context) {
	count, err := h.useCase.CountProducts()
	if err != nil {
		h.log.Errorf("Failed to count products: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to count products")
		return
	}

	SuccessResponse(c, http.StatusOK, "Product count retrieved successfully", gin.H{"total": count})
}

type filterRequest struct {
	CategoryIDs []int     `json:"category_ids"`
	PriceRange  []float64 `json:"price_range"`
}

func (h *ProductHandler) FilterProducts(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for product filter: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	products, err := h.useCase.FilterProducts(req.CategoryIDs, req.PriceRange)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to filter products: %v", err)
		ErrorResponse(c, statusCode, "Failed to filter products: "+err.Error())
		return
	}

	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching criteria", []domain.Product{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	term := c.Param("term")
	if term == "" {
		ErrorResponse(c, http.StatusBadRequest, "Search term cannot be empty")
		return
	}

	products, err := h.useCase.SearchProducts(term)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to search products for '%s': %v", term, err)
		ErrorResponse(c, statusCode, "Failed to search products: "+err.Error())
		return
	}

	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching search", []domain.Product{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetRelatedProducts(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil || categoryID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	products, err := h.useCase.GetRelatedProducts(productID, categoryID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get related products for %d/%d: %v", productID, categoryID, err)
		ErrorResponse(c, statusCode, "Failed to retrieve related products: "+err.Error())
		return
	}

	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No related products found", []domain.Product{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Related products retrieved successfully", products)
}

func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")

	product, err := h.useCase.GetProductBySlug(slug)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get product by slug '%s': %v", slug, err)
		ErrorResponse(c, statusCode, "Failed to retrieve product: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) GetProductPhoto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	photo, contentType, err := h.useCase.GetProductPhoto(id)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get photo for product ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to retrieve product photo: "+err.Error())
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, photo)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	input, ok := h.bindProductForm(c)
	if !ok {
		return
	}

	created, err := h.useCase.CreateProduct(input)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to create product '%s': %v", input.Name, err)
		ErrorResponse(c, statusCode, "Failed to create product: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	input, ok := h.bindProductForm(c)
	if !ok {
		return
	}

	updated, err := h.useCase.UpdateProduct(id, input)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to update product ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update product: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.useCase.DeleteProduct(id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to delete product ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete product: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

// bindProductForm reads the multipart product fields and the optional
// photo. A missing photo file is not an error; create and update both
// treat it as "no new photo".
func (h *ProductHandler) bindProductForm(c *gin.Context) (usecase.ProductInput, bool) {
	var input usecase.ProductInput

	input.Name = c.PostForm("name")
	input.Description = c.PostForm("description")

	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid price format")
			return input, false
		}
		input.Price = price
	}
	if categoryStr := c.PostForm("category_id"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid category_id format")
			return input, false
		}
		input.CategoryID = categoryID
	}
	if quantityStr := c.PostForm("quantity"); quantityStr != "" {
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid quantity format")
			return input, false
		}
		input.Quantity = quantity
	}
	if shippingStr := c.PostForm("shipping"); shippingStr != "" {
		shipping, err := strconv.ParseBool(shippingStr)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid shipping format")
			return input, false
		}
		input.Shipping = shipping
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		if err != http.ErrMissingFile {
			h.log.Errorf("Failed to read photo upload: %v", err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid photo upload")
			return input, false
		}
		return input, true
	}

	if fileHeader.Size > usecase.MaxPhotoSize {
		ErrorResponse(c, http.StatusBadRequest, "Photo must be less than 1MB")
		return input, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Errorf("Failed to open photo upload: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid photo upload")
		return input, false
	}
	defer file.Close()

	photo, err := io.ReadAll(io.LimitReader(file, usecase.MaxPhotoSize+1))
	if err != nil {
		h.log.Errorf("Failed to read photo upload: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid photo upload")
		return input, false
	}
	if len(photo) > usecase.MaxPhotoSize {
		ErrorResponse(c, http.StatusBadRequest, "Photo must be less than 1MB")
		return input, false
	}

	input.Photo = photo
	input.PhotoContentType = fileHeader.Header.Get("Content-Type")
	return input, true
}
