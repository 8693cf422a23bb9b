package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"bizledger/internal/logger"
	"bizledger/internal/models"
	"bizledger/internal/services"
	"bizledger/internal/testutil"
)

func init() {
	logger.Init("test")
}

func TestCollectAndWriteText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	office := testutil.CreateTestCategoryNamed(t, db, "Office Supplies")
	testutil.CreateTestIncome(t, db, "50000", "2024-01-10")
	testutil.CreateTestExpense(t, db, "20000", office.ID, "2024-02-20")

	stats := services.NewStatisticsService(db, services.NewCategoryService(db))
	rep, err := Collect(stats, "", services.DateRange{})
	testutil.AssertNoError(t, err)

	if rep.Period != "month" {
		t.Errorf("expected default period month, got %q", rep.Period)
	}
	testutil.AssertDecimal(t, rep.Summary.Balance, "30000")

	var buf bytes.Buffer
	rep.WriteText(&buf)
	out := buf.String()

	for _, want := range []string{
		"Statistics by month",
		"Balance",
		"30000.00",
		"2024-02",
		"2024-01",
		"Office Supplies",
		"20000.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	periods := out[strings.Index(out, "Statistics by month"):]
	if strings.Index(periods, "2024-02") > strings.Index(periods, "2024-01") {
		t.Error("expected newest bucket first")
	}
}

func TestWriteSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, &services.Summary{})

	if !strings.Contains(buf.String(), "First operation") || !strings.Contains(buf.String(), " - ") {
		t.Errorf("expected dash for missing dates:\n%s", buf.String())
	}
}

func TestWriteCategoryExpenses_Footer(t *testing.T) {
	var buf bytes.Buffer
	WriteCategoryExpenses(&buf, []services.CategoryExpense{
		{Name: "Software", OperationsCount: 2, TotalAmount: decimal.NewFromInt(800), AvgAmount: decimal.NewFromInt(400)},
		{Name: "Internet", OperationsCount: 1, TotalAmount: decimal.NewFromInt(200), AvgAmount: decimal.NewFromInt(200)},
	})

	out := buf.String()
	if !strings.Contains(out, "1000.00") {
		t.Errorf("expected footer total 1000.00:\n%s", out)
	}
}

func TestRenderCategoryChart(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderCategoryChart(&buf, []services.CategoryExpense{
			{Name: "Software", TotalAmount: decimal.NewFromInt(800)},
			{Name: "Internet", TotalAmount: decimal.NewFromInt(200)},
		}, "Expenses")
		testutil.AssertNoError(t, err)

		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Error("expected PNG output")
		}
	})

	t.Run("single_bar", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderCategoryChart(&buf, []services.CategoryExpense{
			{Name: "Software", TotalAmount: decimal.NewFromInt(800)},
		}, "Expenses")
		testutil.AssertNoError(t, err)
	})

	t.Run("no_expenses", func(t *testing.T) {
		var buf bytes.Buffer
		err := RenderCategoryChart(&buf, nil, "Expenses")
		if !errors.Is(err, ErrNoExpenses) {
			t.Errorf("expected ErrNoExpenses, got %v", err)
		}
	})
}

func TestRangeLabel(t *testing.T) {
	from, _ := models.ParseDate("2024-01-01")
	to, _ := models.ParseDate("2024-03-31")

	tests := []struct {
		name string
		r    services.DateRange
		want string
	}{
		{"open", services.DateRange{}, ""},
		{"from", services.DateRange{From: &from}, " since 2024-01-01"},
		{"to", services.DateRange{To: &to}, " until 2024-03-31"},
		{"both", services.DateRange{From: &from, To: &to}, " 2024-01-01 to 2024-03-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rangeLabel(tt.r); got != tt.want {
				t.Errorf("rangeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
