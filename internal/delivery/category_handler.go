package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/usecase"
)

type CategoryHandler struct {
	useCase usecase.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc usecase.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes wires the public reads and the admin-gated mutations.
func (h *CategoryHandler) RegisterRoutes(router gin.IRouter, identify, admin gin.HandlerFunc) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:slug", h.GetCategoryBySlug)
		categories.POST("", identify, admin, h.CreateCategory)
		categories.PUT("/:id", identify, admin, h.RenameCategory)
		categories.DELETE("/:id", identify, admin, h.DeleteCategory)
	}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for create category: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateCategory(req.Name)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to create category '%s': %v", req.Name, err)
		ErrorResponse(c, statusCode, "Failed to create category: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Category created successfully", created)
}

func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid category ID parameter for rename: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for rename category ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.RenameCategory(id, req.Name)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to rename category ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to update category: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Category updated successfully", updated)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid category ID parameter for delete: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	if err := h.useCase.DeleteCategory(id); err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to delete category ID %d: %v", id, err)
		ErrorResponse(c, statusCode, "Failed to delete category: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Category deleted successfully", nil)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories()
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	if len(categories) == 0 {
		SuccessResponse(c, http.StatusOK, "No categories found", []domain.Category{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")

	category, err := h.useCase.GetCategoryBySlug(slug)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to get category by slug '%s': %v", slug, err)
		ErrorResponse(c, statusCode, "Failed to retrieve category: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}
