package ai

import (
	"testing"
	"time"

	"bizledger/internal/models"
	"bizledger/internal/services"
	"bizledger/internal/testutil"
)

func TestWindows(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		quarter  bool
		from, to string
		label    string
	}{
		{"month_leap_february", time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC), false, "2024-02-01", "2024-02-29", "February 2024"},
		{"month_december", time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), false, "2024-12-01", "2024-12-31", "December 2024"},
		{"quarter_two", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), true, "2024-04-01", "2024-06-30", "Q2 2024"},
		{"quarter_four", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), true, "2024-10-01", "2024-12-31", "Q4 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := MonthWindow(tt.now)
			if tt.quarter {
				w = QuarterWindow(tt.now)
			}
			if w.From.String() != tt.from || w.To.String() != tt.to || w.Label != tt.label {
				t.Errorf("got %s..%s %q, want %s..%s %q", w.From, w.To, w.Label, tt.from, tt.to, tt.label)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	collector := NewCollector(services.NewStatisticsService(db, services.NewCategoryService(db)))

	software := testutil.CreateTestCategoryNamed(t, db, "Software")
	internet := testutil.CreateTestCategoryNamed(t, db, "Internet")

	testutil.CreateTestIncome(t, db, "50000", "2024-05-02")
	testutil.CreateTestExpense(t, db, "12000", software.ID, "2024-05-03")
	testutil.CreateTestExpense(t, db, "3000", software.ID, "2024-05-04")
	testutil.CreateTestExpense(t, db, "5000", internet.ID, "2024-05-05")
	testutil.CreateTestExpense(t, db, "500", internet.ID, "2024-05-06")
	testutil.CreateTestUncategorizedExpense(t, db, "700", "2024-05-07")
	testutil.CreateTestExpense(t, db, "99999", software.ID, "2024-04-30")

	snap, err := collector.Collect(PeriodMonth, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))
	testutil.AssertNoError(t, err)

	if !snap.HasData() || snap.Statistics.TotalOperations != 6 {
		t.Fatalf("expected 6 operations in May, got %d", snap.Statistics.TotalOperations)
	}
	testutil.AssertDecimal(t, snap.Statistics.TotalIncome, "50000")
	testutil.AssertDecimal(t, snap.Statistics.TotalExpense, "21200")
	testutil.AssertDecimal(t, snap.Statistics.Balance, "28800")
	if snap.Statistics.IncomeCount != 1 || snap.Statistics.ExpenseCount != 5 {
		t.Errorf("unexpected counts %+v", snap.Statistics)
	}

	wantCategories := []string{"Software", "Internet", uncategorizedName}
	if len(snap.Categories) != len(wantCategories) {
		t.Fatalf("expected %d categories, got %+v", len(wantCategories), snap.Categories)
	}
	for i, name := range wantCategories {
		if snap.Categories[i].Name != name {
			t.Errorf("category %d: expected %s, got %s", i, name, snap.Categories[i].Name)
		}
	}
	testutil.AssertDecimal(t, snap.Categories[0].Total, "15000")
	if snap.Categories[0].Count != 2 {
		t.Errorf("expected 2 software operations, got %d", snap.Categories[0].Count)
	}

	if len(snap.TopExpenses) != 5 {
		t.Fatalf("expected 5 top expenses, got %d", len(snap.TopExpenses))
	}
	testutil.AssertDecimal(t, snap.TopExpenses[0].Amount, "12000")
	testutil.AssertDecimal(t, snap.TopExpenses[4].Amount, "500")

	if snap.FrequentSmallExpenses != 2 {
		t.Errorf("expected 2 small expenses, got %d", snap.FrequentSmallExpenses)
	}
}

func TestBuildSnapshot_CategoryLimit(t *testing.T) {
	var ops []models.Operation
	for i := 0; i < 12; i++ {
		name := string(rune('A' + i))
		ops = append(ops, models.Operation{
			Type:         models.OperationTypeExpense,
			Amount:       testDecimal(t, "100"),
			CategoryName: &name,
		})
	}

	snap := buildSnapshot(PeriodMonth, MonthWindow(time.Now()), ops)
	if len(snap.Categories) != maxSnapshotCategories {
		t.Errorf("expected %d categories, got %d", maxSnapshotCategories, len(snap.Categories))
	}
	if snap.Categories[0].Name != "A" {
		t.Errorf("equal totals should sort by name, got %s first", snap.Categories[0].Name)
	}
}

func TestCollect_EmptyWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	collector := NewCollector(services.NewStatisticsService(db, services.NewCategoryService(db)))

	snap, err := collector.Collect(PeriodQuarter, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC))
	testutil.AssertNoError(t, err)

	if snap.HasData() {
		t.Error("expected empty snapshot")
	}
	if snap.Period != PeriodQuarter || snap.Categories == nil || snap.TopExpenses == nil {
		t.Errorf("unexpected empty snapshot %+v", snap)
	}
}
