package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// OperationHandler handles operation-related requests.
type OperationHandler struct {
	operationService services.OperationServicer
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(operationService services.OperationServicer) *OperationHandler {
	return &OperationHandler{operationService: operationService}
}

// CreateOperationRequest represents the request payload for creating an operation.
type CreateOperationRequest struct {
	Type          models.OperationType `json:"type" binding:"required,operation_type" example:"expense"`
	Amount        decimal.Decimal      `json:"amount" swaggertype:"number" example:"15000"`
	Description   string               `json:"description" binding:"max=1000"`
	CategoryID    *string              `json:"category_id" binding:"omitempty,uuid"`
	OperationDate *models.Date         `json:"operation_date" swaggertype:"string" example:"2024-05-01"`
}

// UpdateOperationRequest represents the request payload for updating an operation.
type UpdateOperationRequest struct {
	Type          *models.OperationType `json:"type" binding:"omitempty,operation_type"`
	Amount        *decimal.Decimal      `json:"amount" swaggertype:"number"`
	Description   *string               `json:"description" binding:"omitempty,max=1000"`
	CategoryID    *string               `json:"category_id" binding:"omitempty,uuid"`
	OperationDate *models.Date          `json:"operation_date" swaggertype:"string"`
}

// operationListQuery holds the list filters.
type operationListQuery struct {
	dateRangeQuery
	pagination.Request
	Type       string `form:"type" binding:"omitempty,operation_type"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
}

// CreateOperation handles the creation of a new operation.
// @Summary     Create an operation
// @Description Record an income or expense. Expenses require a category; income never carries one.
// @Tags        operations
// @Accept      json
// @Produce     json
// @Param       request body CreateOperationRequest true "Operation details"
// @Success     201 {object} Response{data=models.Operation} "Operation created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations [post]
func (h *OperationHandler) CreateOperation(c *gin.Context) {
	var req CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	op, err := h.operationService.CreateOperation(services.OperationInput{
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		OperationDate: req.OperationDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, op, "Operation created")
}

// ListOperations handles listing operations.
// @Summary     List operations
// @Description List operations newest first with optional filters
// @Tags        operations
// @Produce     json
// @Param       type        query string false "Filter by type (income/expense)"
// @Param       category_id query string false "Filter by category ID"
// @Param       date_from   query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       date_to     query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       limit       query int    false "Page size (default 100, max 1000)"
// @Param       offset      query int    false "Items to skip"
// @Success     200 {object} Response{data=[]models.Operation} "Operations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations [get]
func (h *OperationHandler) ListOperations(c *gin.Context) {
	var q operationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	r, err := q.toRange()
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.OperationFilter{Range: r}
	if q.Type != "" {
		t := models.OperationType(q.Type)
		filter.Type = &t
	}
	if q.CategoryID != "" {
		filter.CategoryID = &q.CategoryID
	}

	page, err := h.operationService.ListOperations(filter, q.Request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       page.Items,
		"pagination": page.Meta(),
	})
}

// GetOperation handles retrieving a single operation.
// @Summary     Get operation by ID
// @Tags        operations
// @Produce     json
// @Param       id path string true "Operation ID"
// @Success     200 {object} Response{data=models.Operation} "Operation"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Operation not found"
// @Router      /operations/{id} [get]
func (h *OperationHandler) GetOperation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	op, err := h.operationService.GetOperationByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, op, "")
}

// UpdateOperation handles a partial update of an operation.
// @Summary     Update an operation
// @Description Update any subset of fields. Switching to income clears the category.
// @Tags        operations
// @Accept      json
// @Produce     json
// @Param       id      path string                 true "Operation ID"
// @Param       request body UpdateOperationRequest true "Fields to update"
// @Success     200 {object} Response{data=models.Operation} "Operation updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Operation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations/{id} [put]
func (h *OperationHandler) UpdateOperation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if req.CategoryID != nil && strings.TrimSpace(*req.CategoryID) == "" {
		req.CategoryID = nil
	}

	op, err := h.operationService.UpdateOperation(id, services.OperationUpdate{
		Type:          req.Type,
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		OperationDate: req.OperationDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, op, "Operation updated")
}

// DeleteOperation handles deleting an operation.
// @Summary     Delete an operation
// @Tags        operations
// @Produce     json
// @Param       id path string true "Operation ID"
// @Success     200 {object} Response "Operation deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Operation not found"
// @Router      /operations/{id} [delete]
func (h *OperationHandler) DeleteOperation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.operationService.DeleteOperation(id); err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, nil, "Operation deleted")
}
