// Package ai assembles financial snapshots, renders deterministic reports and
// orchestrates completion providers for the advisor endpoints.
package ai

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"bizledger/internal/models"
	"bizledger/internal/services"
)

// Collection periods.
const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
)

const (
	uncategorizedName      = "Uncategorized"
	maxSnapshotCategories  = 10
	maxTopExpenses         = 5
	smallExpenseThreshold  = 1000
	frequentSmallThreshold = 10
)

var smallExpenseLimit = decimal.NewFromInt(smallExpenseThreshold)

// Window is an inclusive calendar range.
type Window struct {
	From  models.Date `json:"from"`
	To    models.Date `json:"to"`
	Label string      `json:"label"`
}

// Range converts the window to a statistics date range.
func (w Window) Range() services.DateRange {
	from, to := w.From, w.To
	return services.DateRange{From: &from, To: &to}
}

// MonthWindow returns the calendar month containing now.
func MonthWindow(now time.Time) Window {
	start := models.NewDate(now).AddMonths(0)
	return Window{
		From:  start,
		To:    lastDay(start),
		Label: start.Format("January 2006"),
	}
}

// QuarterWindow returns the calendar quarter containing now.
func QuarterWindow(now time.Time) Window {
	q := (int(now.Month()) - 1) / 3
	start := models.NewDate(time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC))
	return Window{
		From:  start,
		To:    lastDay(start.AddMonths(2)),
		Label: fmt.Sprintf("Q%d %d", q+1, now.Year()),
	}
}

func lastDay(monthStart models.Date) models.Date {
	return models.NewDate(monthStart.AddMonths(1).AddDate(0, 0, -1))
}

// Statistics are the totals of a snapshot window.
type Statistics struct {
	TotalOperations int             `json:"total_operations"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	Balance         decimal.Decimal `json:"balance"`
	IncomeCount     int             `json:"income_count"`
	ExpenseCount    int             `json:"expense_count"`
}

// CategoryTotal is the expense total of one category inside a window.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ExpenseItem is a single expense surfaced in a snapshot.
type ExpenseItem struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        models.Date     `json:"date"`
}

// Snapshot summarizes the operations of one window.
type Snapshot struct {
	Period                string          `json:"period"`
	Window                Window          `json:"window"`
	Statistics            Statistics      `json:"statistics"`
	Categories            []CategoryTotal `json:"categories"`
	TopExpenses           []ExpenseItem   `json:"top_expenses"`
	FrequentSmallExpenses int             `json:"frequent_small_expenses"`
}

// HasData reports whether the window contains any operation.
func (s *Snapshot) HasData() bool {
	return s != nil && s.Statistics.TotalOperations > 0
}

// Collector builds snapshots from stored operations.
type Collector struct {
	stats services.StatisticsServicer
}

// NewCollector creates a new Collector.
func NewCollector(stats services.StatisticsServicer) *Collector {
	return &Collector{stats: stats}
}

// Collect builds the snapshot for the month or quarter containing now.
// Any other period is treated as month.
func (c *Collector) Collect(period string, now time.Time) (*Snapshot, error) {
	window := MonthWindow(now)
	if period == PeriodQuarter {
		window = QuarterWindow(now)
	} else {
		period = PeriodMonth
	}

	ops, err := c.stats.OperationsInRange(window.Range())
	if err != nil {
		return nil, err
	}
	return buildSnapshot(period, window, ops), nil
}

func buildSnapshot(period string, window Window, ops []models.Operation) *Snapshot {
	snap := &Snapshot{
		Period:      period,
		Window:      window,
		Categories:  []CategoryTotal{},
		TopExpenses: []ExpenseItem{},
	}
	stats := &snap.Statistics
	stats.TotalOperations = len(ops)

	byCategory := make(map[string]*CategoryTotal)
	var expenses []ExpenseItem

	for _, op := range ops {
		if op.Type == models.OperationTypeIncome {
			stats.TotalIncome = stats.TotalIncome.Add(op.Amount)
			stats.IncomeCount++
			continue
		}

		stats.TotalExpense = stats.TotalExpense.Add(op.Amount)
		stats.ExpenseCount++

		name := uncategorizedName
		if op.CategoryName != nil && *op.CategoryName != "" {
			name = *op.CategoryName
		}
		ct, ok := byCategory[name]
		if !ok {
			ct = &CategoryTotal{Name: name}
			byCategory[name] = ct
		}
		ct.Total = ct.Total.Add(op.Amount)
		ct.Count++

		if op.Amount.LessThan(smallExpenseLimit) {
			snap.FrequentSmallExpenses++
		}
		expenses = append(expenses, ExpenseItem{
			Amount:      op.Amount,
			Description: op.Description,
			Category:    name,
			Date:        op.OperationDate,
		})
	}
	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpense)

	for _, ct := range byCategory {
		snap.Categories = append(snap.Categories, *ct)
	}
	sort.Slice(snap.Categories, func(i, j int) bool {
		a, b := snap.Categories[i], snap.Categories[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Name < b.Name
	})
	if len(snap.Categories) > maxSnapshotCategories {
		snap.Categories = snap.Categories[:maxSnapshotCategories]
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Amount.GreaterThan(expenses[j].Amount)
	})
	if len(expenses) > maxTopExpenses {
		expenses = expenses[:maxTopExpenses]
	}
	snap.TopExpenses = append(snap.TopExpenses, expenses...)

	return snap
}

// topCategoryNames returns up to n category names, largest first.
func (s *Snapshot) topCategoryNames(n int) []string {
	names := make([]string, 0, n)
	for i, c := range s.Categories {
		if i == n {
			break
		}
		names = append(names, c.Name)
	}
	return names
}
