package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Office Supplies"`
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Description Create a new expense category. Names are unique.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} Response{data=models.Category} "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Category already exists"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, category, "Category created")
}

// ListCategories handles listing all categories.
// @Summary     List categories
// @Description List all categories alphabetically
// @Tags        categories
// @Produce     json
// @Success     200 {object} Response{data=[]models.Category} "Categories"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, categories, "")
}

// DeleteCategory handles deleting a category. Operations that referenced it
// become uncategorized.
// @Summary     Delete a category
// @Tags        categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} Response "Category deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, nil, "Category deleted")
}
