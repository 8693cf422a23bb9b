package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bizledger/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates an expense category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryNamed creates an expense category with the given name.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Type: models.CategoryTypeExpense}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestIncome creates an income operation dated date (YYYY-MM-DD).
func CreateTestIncome(t *testing.T, db *gorm.DB, amount, date string) *models.Operation {
	t.Helper()
	return createTestOperation(t, db, models.OperationTypeIncome, amount, nil, date)
}

// CreateTestExpense creates an expense operation in the given category dated date (YYYY-MM-DD).
func CreateTestExpense(t *testing.T, db *gorm.DB, amount, categoryID, date string) *models.Operation {
	t.Helper()
	return createTestOperation(t, db, models.OperationTypeExpense, amount, &categoryID, date)
}

// CreateTestUncategorizedExpense bypasses service validation to store an
// expense without a category, as left behind by a category deletion.
func CreateTestUncategorizedExpense(t *testing.T, db *gorm.DB, amount, date string) *models.Operation {
	t.Helper()
	return createTestOperation(t, db, models.OperationTypeExpense, amount, nil, date)
}

func createTestOperation(t *testing.T, db *gorm.DB, opType models.OperationType, amount string, categoryID *string, date string) *models.Operation {
	t.Helper()

	opDate, err := models.ParseDate(date)
	if err != nil {
		t.Fatalf("invalid fixture date: %v", err)
	}
	op := &models.Operation{
		Type:          opType,
		Amount:        decimal.RequireFromString(amount),
		Description:   fmt.Sprintf("Test operation %d", nextID()),
		CategoryID:    categoryID,
		OperationDate: opDate,
	}
	if err := db.Create(op).Error; err != nil {
		t.Fatalf("failed to create test operation: %v", err)
	}
	return op
}

// CreateTestAnalysis stores an analysis artifact of the given type.
func CreateTestAnalysis(t *testing.T, db *gorm.DB, analysisType string) *models.Analysis {
	t.Helper()

	analysis := &models.Analysis{
		Type:    analysisType,
		Title:   fmt.Sprintf("Test analysis %d", nextID()),
		Content: "content",
	}
	if err := db.Create(analysis).Error; err != nil {
		t.Fatalf("failed to create test analysis: %v", err)
	}
	return analysis
}
