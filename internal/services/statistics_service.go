package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
)

// Statistics periods.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// sqliteISOThursday is the Thursday of the ISO week holding operation_date.
// Its year and day of year give the ISO week-year and week number.
const sqliteISOThursday = "date(operation_date, '-3 days', 'weekday 4')"

// periodFormats maps a period to its bucket key format per SQL dialect.
// Weeks are ISO weeks labelled YYYY-Www on both dialects.
var periodFormats = map[string]map[string]string{
	"sqlite": {
		PeriodDay: "strftime('%Y-%m-%d', operation_date)",
		PeriodWeek: "printf('%s-W%02d', strftime('%Y', " + sqliteISOThursday + "), " +
			"(CAST(strftime('%j', " + sqliteISOThursday + ") AS INTEGER) + 6) / 7)",
		PeriodMonth: "strftime('%Y-%m', operation_date)",
		PeriodYear:  "strftime('%Y', operation_date)",
	},
	"postgres": {
		PeriodDay:   "to_char(operation_date, 'YYYY-MM-DD')",
		PeriodWeek:  `to_char(operation_date, 'IYYY-"W"IW')`,
		PeriodMonth: "to_char(operation_date, 'YYYY-MM')",
		PeriodYear:  "to_char(operation_date, 'YYYY')",
	},
}

// moneyPlaces is the scale of stored amounts. SQLite sums numeric columns as
// floats, so aggregates are rounded back to it.
const moneyPlaces = 2

const totalsColumns = `COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
	COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expense,
	COUNT(CASE WHEN type = 'income' THEN 1 END) AS income_count,
	COUNT(CASE WHEN type = 'expense' THEN 1 END) AS expense_count`

// statisticsService computes aggregates over operations.
type statisticsService struct {
	db         *gorm.DB
	categories CategoryServicer
}

// NewStatisticsService creates a new StatisticsServicer.
func NewStatisticsService(db *gorm.DB, categories CategoryServicer) StatisticsServicer {
	return &statisticsService{db: db, categories: categories}
}

// PeriodStatistics groups operations into calendar buckets, newest first.
// An empty period means month.
func (s *statisticsService) PeriodStatistics(period string, r DateRange) ([]PeriodStat, error) {
	if period == "" {
		period = PeriodMonth
	}
	expr, err := s.periodExpr(period)
	if err != nil {
		return nil, err
	}

	var stats []PeriodStat
	query := s.db.Model(&models.Operation{}).Select(expr + " AS period, " + totalsColumns)
	if err := r.apply(query, "operation_date").
		Group("period").
		Order("period DESC").
		Scan(&stats).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if stats == nil {
		stats = []PeriodStat{}
	}
	for i := range stats {
		stats[i].TotalIncome = stats[i].TotalIncome.Round(moneyPlaces)
		stats[i].TotalExpense = stats[i].TotalExpense.Round(moneyPlaces)
		stats[i].Balance = stats[i].TotalIncome.Sub(stats[i].TotalExpense)
	}
	return stats, nil
}

// MonthlyTotals returns month buckets in chronological order.
func (s *statisticsService) MonthlyTotals(r DateRange) ([]PeriodStat, error) {
	stats, err := s.PeriodStatistics(PeriodMonth, r)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(stats)-1; i < j; i, j = i+1, j-1 {
		stats[i], stats[j] = stats[j], stats[i]
	}
	return stats, nil
}

// ExpensesByCategory aggregates expense operations per category, largest
// total first. Categories without expenses are omitted. When that query
// yields nothing although expenses exist in range, an inner-join query
// without the total filter is used instead.
func (s *statisticsService) ExpensesByCategory(r DateRange) ([]CategoryExpense, error) {
	if err := s.categories.EnsureDefaults(); err != nil {
		return nil, err
	}

	conds, args := rangeConditions(r, "o.operation_date")

	primary := `SELECT c.id AS id, c.name AS name,
		COUNT(o.id) AS operations_count,
		COALESCE(SUM(o.amount), 0) AS total_amount,
		COALESCE(AVG(o.amount), 0) AS avg_amount
	FROM categories c
	LEFT JOIN operations o ON o.category_id = c.id AND o.type = 'expense'` + conds + `
	GROUP BY c.id, c.name
	HAVING COALESCE(SUM(o.amount), 0) > 0
	ORDER BY total_amount DESC, c.name ASC`

	var rows []CategoryExpense
	if err := s.db.Raw(primary, args...).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// With expenses in range but no primary rows, every expense lacks a
	// category, so the fallback also comes back empty.
	if len(rows) == 0 {
		var expenseCount int64
		countQuery := s.db.Model(&models.Operation{}).Where("type = ?", models.OperationTypeExpense)
		if err := r.apply(countQuery, "operation_date").Count(&expenseCount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if expenseCount > 0 {
			fallback := `SELECT c.id AS id, c.name AS name,
				COUNT(o.id) AS operations_count,
				SUM(o.amount) AS total_amount,
				AVG(o.amount) AS avg_amount
			FROM operations o
			INNER JOIN categories c ON c.id = o.category_id
			WHERE o.type = 'expense'` + conds + `
			GROUP BY c.id, c.name
			ORDER BY total_amount DESC, c.name ASC`

			if err := s.db.Raw(fallback, args...).Scan(&rows).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
	}

	if rows == nil {
		rows = []CategoryExpense{}
	}
	for i := range rows {
		rows[i].TotalAmount = rows[i].TotalAmount.Round(moneyPlaces)
		rows[i].AvgAmount = rows[i].AvgAmount.Round(moneyPlaces)
	}
	return rows, nil
}

// Summary returns lifetime totals and the operation date span.
func (s *statisticsService) Summary() (*Summary, error) {
	var summary Summary
	if err := s.db.Model(&models.Operation{}).
		Select(totalsColumns + `,
			MIN(operation_date) AS first_operation,
			MAX(operation_date) AS last_operation`).
		Scan(&summary).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary.TotalIncome = summary.TotalIncome.Round(moneyPlaces)
	summary.TotalExpense = summary.TotalExpense.Round(moneyPlaces)
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return &summary, nil
}

// OperationsInRange returns every operation inside r with category names,
// newest first.
func (s *statisticsService) OperationsInRange(r DateRange) ([]models.Operation, error) {
	var ops []models.Operation
	if err := r.apply(withCategoryName(s.db), "operations.operation_date").
		Order("operations.operation_date DESC").
		Order("operations.created_at DESC").
		Find(&ops).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ops, nil
}

func (s *statisticsService) periodExpr(period string) (string, error) {
	formats, ok := periodFormats[s.db.Dialector.Name()]
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrInternalServer,
			fmt.Errorf("statistics not supported for dialect %q", s.db.Dialector.Name()))
	}
	expr, ok := formats[period]
	if !ok {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput,
			"period must be one of day, week, month, year")
	}
	return expr, nil
}

// rangeConditions renders r as extra AND clauses for raw SQL.
func rangeConditions(r DateRange, column string) (string, []interface{}) {
	var b strings.Builder
	var args []interface{}
	if r.From != nil && !r.From.IsZero() {
		b.WriteString(" AND " + column + " >= ?")
		args = append(args, r.From.String())
	}
	if r.To != nil && !r.To.IsZero() {
		b.WriteString(" AND " + column + " <= ?")
		args = append(args, r.To.String())
	}
	return b.String(), args
}
