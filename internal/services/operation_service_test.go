package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/testutil"
)

func strPtr(s string) *string { return &s }

func typePtr(t models.OperationType) *models.OperationType { return &t }

func datePtr(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return &d
}

func TestCreateOperation(t *testing.T) {
	t.Run("expense_with_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategoryNamed(t, db, "Office Supplies")

		op, err := svc.CreateOperation(OperationInput{
			Type:          models.OperationTypeExpense,
			Amount:        decimal.NewFromInt(15000),
			Description:   "  printer paper ",
			CategoryID:    &category.ID,
			OperationDate: datePtr(t, "2024-03-10"),
		})
		testutil.AssertNoError(t, err)

		if op.ID == "" {
			t.Fatal("expected operation ID")
		}
		if op.CategoryID == nil || *op.CategoryID != category.ID {
			t.Errorf("expected category %s, got %v", category.ID, op.CategoryID)
		}
		if op.CategoryName == nil || *op.CategoryName != "Office Supplies" {
			t.Errorf("expected joined category name, got %v", op.CategoryName)
		}
		if op.Description != "printer paper" {
			t.Errorf("expected trimmed description, got %q", op.Description)
		}
		if op.OperationDate.String() != "2024-03-10" {
			t.Errorf("expected date 2024-03-10, got %s", op.OperationDate)
		}
		testutil.AssertDecimal(t, op.Amount, "15000")
	})

	t.Run("income_drops_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategory(t, db)

		op, err := svc.CreateOperation(OperationInput{
			Type:       models.OperationTypeIncome,
			Amount:     decimal.NewFromInt(50000),
			CategoryID: &category.ID,
		})
		testutil.AssertNoError(t, err)

		if op.CategoryID != nil {
			t.Errorf("expected income to have no category, got %v", *op.CategoryID)
		}
	})

	t.Run("defaults_date_to_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		op, err := svc.CreateOperation(OperationInput{Type: models.OperationTypeIncome, Amount: decimal.NewFromInt(1)})
		testutil.AssertNoError(t, err)

		if op.OperationDate.String() != models.Today().String() {
			t.Errorf("expected today, got %s", op.OperationDate)
		}
	})

	t.Run("expense_without_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		_, err := svc.CreateOperation(OperationInput{Type: models.OperationTypeExpense, Amount: decimal.NewFromInt(10)})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")

		_, err = svc.CreateOperation(OperationInput{Type: models.OperationTypeExpense, Amount: decimal.NewFromInt(10), CategoryID: strPtr("  ")})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("expense_with_unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		_, err := svc.CreateOperation(OperationInput{
			Type:       models.OperationTypeExpense,
			Amount:     decimal.NewFromInt(10),
			CategoryID: strPtr("0190a5f2-8b3c-7d4e-9f00-123456789abc"),
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		for _, amount := range []int64{0, -5} {
			_, err := svc.CreateOperation(OperationInput{Type: models.OperationTypeIncome, Amount: decimal.NewFromInt(amount)})
			testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		_, err := svc.CreateOperation(OperationInput{Type: "transfer", Amount: decimal.NewFromInt(10)})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestUpdateOperation(t *testing.T) {
	t.Run("amount_only_keeps_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategory(t, db)
		op := testutil.CreateTestExpense(t, db, "100", category.ID, "2024-01-05")

		amount := decimal.NewFromInt(250)
		updated, err := svc.UpdateOperation(op.ID, OperationUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, updated.Amount, "250")
		if updated.CategoryID == nil || *updated.CategoryID != category.ID {
			t.Errorf("expected category to be kept, got %v", updated.CategoryID)
		}
		if updated.OperationDate.String() != "2024-01-05" {
			t.Errorf("expected date to be kept, got %s", updated.OperationDate)
		}
		if updated.Description != op.Description {
			t.Errorf("expected description to be kept, got %q", updated.Description)
		}
	})

	t.Run("expense_to_income_clears_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategory(t, db)
		op := testutil.CreateTestExpense(t, db, "100", category.ID, "2024-01-05")

		updated, err := svc.UpdateOperation(op.ID, OperationUpdate{
			Type:       typePtr(models.OperationTypeIncome),
			CategoryID: &category.ID,
		})
		testutil.AssertNoError(t, err)

		if updated.Type != models.OperationTypeIncome {
			t.Errorf("expected income, got %s", updated.Type)
		}
		if updated.CategoryID != nil {
			t.Errorf("expected category cleared, got %v", *updated.CategoryID)
		}
	})

	t.Run("type_to_expense_without_category_clears_it", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategory(t, db)
		op := testutil.CreateTestExpense(t, db, "100", category.ID, "2024-01-05")

		updated, err := svc.UpdateOperation(op.ID, OperationUpdate{Type: typePtr(models.OperationTypeExpense)})
		testutil.AssertNoError(t, err)

		if updated.CategoryID != nil {
			t.Errorf("expected category cleared, got %v", *updated.CategoryID)
		}
	})

	t.Run("income_to_expense_with_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategoryNamed(t, db, "Rent")
		op := testutil.CreateTestIncome(t, db, "100", "2024-01-05")

		updated, err := svc.UpdateOperation(op.ID, OperationUpdate{
			Type:       typePtr(models.OperationTypeExpense),
			CategoryID: &category.ID,
		})
		testutil.AssertNoError(t, err)

		if updated.CategoryName == nil || *updated.CategoryName != "Rent" {
			t.Errorf("expected category Rent, got %v", updated.CategoryName)
		}
	})

	t.Run("category_change_on_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		first := testutil.CreateTestCategory(t, db)
		second := testutil.CreateTestCategory(t, db)
		op := testutil.CreateTestExpense(t, db, "100", first.ID, "2024-01-05")

		updated, err := svc.UpdateOperation(op.ID, OperationUpdate{CategoryID: &second.ID})
		testutil.AssertNoError(t, err)

		if updated.CategoryID == nil || *updated.CategoryID != second.ID {
			t.Errorf("expected category %s, got %v", second.ID, updated.CategoryID)
		}
	})

	t.Run("category_ignored_for_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategory(t, db)
		op := testutil.CreateTestIncome(t, db, "100", "2024-01-05")

		updated, err := svc.UpdateOperation(op.ID, OperationUpdate{CategoryID: &category.ID})
		testutil.AssertNoError(t, err)

		if updated.CategoryID != nil {
			t.Errorf("expected income to stay uncategorized, got %v", *updated.CategoryID)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		category := testutil.CreateTestCategory(t, db)
		op := testutil.CreateTestExpense(t, db, "100", category.ID, "2024-01-05")

		_, err := svc.UpdateOperation(op.ID, OperationUpdate{CategoryID: strPtr("0190a5f2-8b3c-7d4e-9f00-123456789abc")})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		op := testutil.CreateTestIncome(t, db, "100", "2024-01-05")

		zero := decimal.Zero
		_, err := svc.UpdateOperation(op.ID, OperationUpdate{Amount: &zero})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		amount := decimal.NewFromInt(1)
		_, err := svc.UpdateOperation("0190a5f2-8b3c-7d4e-9f00-123456789abc", OperationUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "OPERATION_NOT_FOUND")
	})
}

func TestDeleteOperation(t *testing.T) {
	t.Run("removes_from_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		op := testutil.CreateTestIncome(t, db, "100", "2024-01-05")
		testutil.CreateTestIncome(t, db, "200", "2024-01-06")

		testutil.AssertNoError(t, svc.DeleteOperation(op.ID))

		page, err := svc.ListOperations(OperationFilter{}, pagination.Request{})
		testutil.AssertNoError(t, err)
		if page.Total != 1 {
			t.Fatalf("expected 1 operation left, got %d", page.Total)
		}
		if page.Items[0].ID == op.ID {
			t.Error("deleted operation still listed")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		err := svc.DeleteOperation("0190a5f2-8b3c-7d4e-9f00-123456789abc")
		testutil.AssertAppError(t, err, "OPERATION_NOT_FOUND")
	})
}

func TestListOperations(t *testing.T) {
	t.Run("ordered_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		older := testutil.CreateTestIncome(t, db, "1", "2024-01-01")
		sameDayFirst := testutil.CreateTestIncome(t, db, "2", "2024-02-01")
		sameDaySecond := testutil.CreateTestIncome(t, db, "3", "2024-02-01")

		page, err := svc.ListOperations(OperationFilter{}, pagination.Request{})
		testutil.AssertNoError(t, err)

		want := []string{sameDaySecond.ID, sameDayFirst.ID, older.ID}
		if len(page.Items) != len(want) {
			t.Fatalf("expected %d operations, got %d", len(want), len(page.Items))
		}
		for i, id := range want {
			if page.Items[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, page.Items[i].ID)
			}
		}
	})

	t.Run("filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		food := testutil.CreateTestCategory(t, db)
		rent := testutil.CreateTestCategory(t, db)

		testutil.CreateTestIncome(t, db, "1000", "2024-01-10")
		testutil.CreateTestExpense(t, db, "10", food.ID, "2024-01-11")
		testutil.CreateTestExpense(t, db, "20", food.ID, "2024-02-11")
		testutil.CreateTestExpense(t, db, "30", rent.ID, "2024-01-31")

		tests := []struct {
			name   string
			filter OperationFilter
			want   int64
		}{
			{"by_type", OperationFilter{Type: typePtr(models.OperationTypeExpense)}, 3},
			{"by_category", OperationFilter{CategoryID: &food.ID}, 2},
			{"by_range_inclusive", OperationFilter{Range: DateRange{From: datePtr(t, "2024-01-10"), To: datePtr(t, "2024-01-31")}}, 3},
			{"combined", OperationFilter{CategoryID: &food.ID, Range: DateRange{To: datePtr(t, "2024-01-31")}}, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				page, err := svc.ListOperations(tt.filter, pagination.Request{})
				testutil.AssertNoError(t, err)
				if page.Total != tt.want || int64(len(page.Items)) != tt.want {
					t.Errorf("expected %d operations, got total=%d items=%d", tt.want, page.Total, len(page.Items))
				}
			})
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)
		for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
			testutil.CreateTestIncome(t, db, "10", day)
		}

		page, err := svc.ListOperations(OperationFilter{}, pagination.Request{Limit: 2, Offset: 1})
		testutil.AssertNoError(t, err)

		if page.Total != 5 {
			t.Errorf("expected total 5, got %d", page.Total)
		}
		if len(page.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(page.Items))
		}
		if page.Items[0].OperationDate.String() != "2024-01-04" {
			t.Errorf("expected second newest first, got %s", page.Items[0].OperationDate)
		}
	})
}
