package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/logger"
	"bizledger/internal/models"
)

const maxCategoryNameLength = 100

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// ListCategories returns all categories in alphabetical order.
func (s *categoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// CreateCategory creates a new expense category
func (s *categoryService) CreateCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is too long")
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{Name: name, Type: models.CategoryTypeExpense}
	if err := s.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// DeleteCategory removes a category and detaches the operations that used it.
func (s *categoryService) DeleteCategory(id string) error {
	if _, err := s.GetCategoryByID(id); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Operation{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Category{}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// EnsureDefaults seeds the default categories when none exist.
func (s *categoryService) EnsureDefaults() error {
	var count int64
	if err := s.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range models.DefaultCategoryNames {
		category := &models.Category{Name: name, Type: models.CategoryTypeExpense}
		if err := s.db.Create(category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	logger.Get().Infow("seeded default categories", "count", len(models.DefaultCategoryNames))
	return nil
}
