package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// operationService handles operation bookkeeping.
type operationService struct {
	db *gorm.DB
}

// NewOperationService creates a new OperationServicer.
func NewOperationService(db *gorm.DB) OperationServicer {
	return &operationService{db: db}
}

// withCategoryName selects operations together with the joined category name.
func withCategoryName(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Operation{}).
		Select("operations.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = operations.category_id")
}

// CreateOperation validates and stores a new operation. Income never keeps
// a category; expense requires an existing one.
func (s *operationService) CreateOperation(input OperationInput) (*models.Operation, error) {
	if !input.Type.Valid() {
		return nil, apperrors.ErrInvalidOperationType
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	var categoryID *string
	if input.Type == models.OperationTypeExpense {
		if isBlank(input.CategoryID) {
			return nil, apperrors.ErrCategoryRequired
		}
		if err := s.ensureCategoryExists(*input.CategoryID); err != nil {
			return nil, err
		}
		categoryID = input.CategoryID
	}

	opDate := models.Today()
	if input.OperationDate != nil && !input.OperationDate.IsZero() {
		opDate = *input.OperationDate
	}

	op := &models.Operation{
		Type:          input.Type,
		Amount:        input.Amount,
		Description:   strings.TrimSpace(input.Description),
		CategoryID:    categoryID,
		OperationDate: opDate,
	}
	if err := s.db.Create(op).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetOperationByID(op.ID)
}

// GetOperationByID retrieves an operation with its category name.
func (s *operationService) GetOperationByID(id string) (*models.Operation, error) {
	var op models.Operation
	if err := withCategoryName(s.db).Where("operations.id = ?", id).Take(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOperationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &op, nil
}

// UpdateOperation applies a partial update.
//
// The category follows the resulting type: switching to income clears it,
// switching to expense takes the supplied category or clears it, and an
// update without a type keeps the category unless a new one is supplied for
// an expense.
func (s *operationService) UpdateOperation(id string, update OperationUpdate) (*models.Operation, error) {
	existing, err := s.GetOperationByID(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}

	opType := existing.Type
	if update.Type != nil {
		if !update.Type.Valid() {
			return nil, apperrors.ErrInvalidOperationType
		}
		opType = *update.Type
		changes["type"] = opType
	}

	if update.Amount != nil {
		if !update.Amount.IsPositive() {
			return nil, apperrors.ErrInvalidAmount
		}
		changes["amount"] = *update.Amount
	}

	if update.Description != nil {
		changes["description"] = strings.TrimSpace(*update.Description)
	}

	if update.OperationDate != nil && !update.OperationDate.IsZero() {
		changes["operation_date"] = *update.OperationDate
	}

	categoryID := existing.CategoryID
	switch {
	case opType == models.OperationTypeIncome:
		categoryID = nil
	case update.Type != nil:
		categoryID = nil
		if !isBlank(update.CategoryID) {
			categoryID = update.CategoryID
		}
	case !isBlank(update.CategoryID):
		categoryID = update.CategoryID
	}
	if categoryID != nil && (existing.CategoryID == nil || *categoryID != *existing.CategoryID) {
		if err := s.ensureCategoryExists(*categoryID); err != nil {
			return nil, err
		}
	}
	changes["category_id"] = categoryID

	if err := s.db.Model(&models.Operation{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetOperationByID(id)
}

// DeleteOperation removes an operation permanently.
func (s *operationService) DeleteOperation(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Operation{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOperationNotFound
	}
	return nil
}

// ListOperations returns one page of operations, newest operation date first.
func (s *operationService) ListOperations(filter OperationFilter, page pagination.Request) (*pagination.Page[models.Operation], error) {
	page.Defaults()

	filtered := func(db *gorm.DB) *gorm.DB {
		if filter.Type != nil {
			db = db.Where("operations.type = ?", *filter.Type)
		}
		if !isBlank(filter.CategoryID) {
			db = db.Where("operations.category_id = ?", *filter.CategoryID)
		}
		return filter.Range.apply(db, "operations.operation_date")
	}

	var total int64
	if err := s.db.Model(&models.Operation{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var ops []models.Operation
	if err := withCategoryName(s.db).
		Scopes(filtered).
		Order("operations.operation_date DESC").
		Order("operations.created_at DESC").
		Order("operations.id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&ops).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPage(ops, page, total)
	return &result, nil
}

func (s *operationService) ensureCategoryExists(id string) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category does not exist")
	}
	return nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
