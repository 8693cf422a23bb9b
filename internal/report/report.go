// Package report renders stored statistics for the terminal: text tables and
// a PNG bar chart of expenses by category.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"

	"bizledger/internal/services"
)

// ErrNoExpenses is returned when a chart is requested without expense data.
var ErrNoExpenses = errors.New("no expenses to chart")

// Report is one snapshot of the statistics read model.
type Report struct {
	Period     string
	Range      services.DateRange
	Summary    *services.Summary
	Periods    []services.PeriodStat
	Categories []services.CategoryExpense
}

// Collect reads the summary, period buckets and category rollup.
func Collect(stats services.StatisticsServicer, period string, r services.DateRange) (*Report, error) {
	summary, err := stats.Summary()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	periods, err := stats.PeriodStatistics(period, r)
	if err != nil {
		return nil, fmt.Errorf("period statistics: %w", err)
	}
	categories, err := stats.ExpensesByCategory(r)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	if period == "" {
		period = "month"
	}
	return &Report{
		Period:     period,
		Range:      r,
		Summary:    summary,
		Periods:    periods,
		Categories: categories,
	}, nil
}

// WriteText prints the three tables to w.
func (r *Report) WriteText(w io.Writer) {
	fmt.Fprintln(w, "Summary")
	WriteSummary(w, r.Summary)

	fmt.Fprintf(w, "\nStatistics by %s%s\n", r.Period, rangeLabel(r.Range))
	WritePeriodStats(w, r.Periods)

	fmt.Fprintf(w, "\nExpenses by category%s\n", rangeLabel(r.Range))
	WriteCategoryExpenses(w, r.Categories)
}

// WriteChart renders the category rollup as a PNG bar chart.
func (r *Report) WriteChart(w io.Writer) error {
	return RenderCategoryChart(w, r.Categories, "Expenses by category"+rangeLabel(r.Range))
}

// WriteSummary prints lifetime totals.
func WriteSummary(w io.Writer, s *services.Summary) {
	table := newTable(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.AppendBulk([][]string{
		{"Total income", money(s.TotalIncome)},
		{"Total expense", money(s.TotalExpense)},
		{"Balance", money(s.Balance)},
		{"Income operations", fmt.Sprint(s.IncomeCount)},
		{"Expense operations", fmt.Sprint(s.ExpenseCount)},
		{"First operation", orDash(s.FirstOperation.String())},
		{"Last operation", orDash(s.LastOperation.String())},
	})
	table.Render()
}

// WritePeriodStats prints one row per bucket, newest first.
func WritePeriodStats(w io.Writer, rows []services.PeriodStat) {
	table := newTable(w)
	table.SetHeader([]string{"Period", "Income", "Expense", "Balance", "Ops"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, row := range rows {
		table.Append([]string{
			row.Period,
			money(row.TotalIncome),
			money(row.TotalExpense),
			money(row.Balance),
			fmt.Sprint(row.IncomeCount + row.ExpenseCount),
		})
	}
	table.Render()
}

// WriteCategoryExpenses prints the rollup with a total footer.
func WriteCategoryExpenses(w io.Writer, rows []services.CategoryExpense) {
	table := newTable(w)
	table.SetHeader([]string{"Category", "Ops", "Total", "Average"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	total := decimal.Zero
	var count int64
	for _, row := range rows {
		table.Append([]string{
			row.Name,
			fmt.Sprint(row.OperationsCount),
			money(row.TotalAmount),
			money(row.AvgAmount),
		})
		total = total.Add(row.TotalAmount)
		count += row.OperationsCount
	}
	table.SetFooter([]string{"Total", fmt.Sprint(count), money(total), ""})
	table.Render()
}

// RenderCategoryChart draws one bar per category.
func RenderCategoryChart(w io.Writer, rows []services.CategoryExpense, title string) error {
	var bars []chart.Value
	maxValue := 0.0
	for _, row := range rows {
		v := row.TotalAmount.InexactFloat64()
		if v <= 0 {
			continue
		}
		bars = append(bars, chart.Value{Label: row.Name, Value: v})
		if v > maxValue {
			maxValue = v
		}
	}
	if len(bars) == 0 {
		return ErrNoExpenses
	}

	barChart := chart.BarChart{
		Title: title,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    chartWidth(len(bars)),
		Height:   400,
		BarWidth: 60,
		Bars:     bars,
	}
	barChart.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1}
	barChart.YAxis.ValueFormatter = func(v interface{}) string {
		if vf, isFloat := v.(float64); isFloat {
			return decimal.NewFromFloat(vf).StringFixed(0)
		}
		return ""
	}

	if err := barChart.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func chartWidth(bars int) int {
	if w := 120 + bars*90; w > 800 {
		return w
	}
	return 800
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func rangeLabel(r services.DateRange) string {
	from, to := "", ""
	if r.From != nil {
		from = r.From.String()
	}
	if r.To != nil {
		to = r.To.String()
	}
	switch {
	case from == "" && to == "":
		return ""
	case to == "":
		return " since " + from
	case from == "":
		return " until " + to
	default:
		return fmt.Sprintf(" %s to %s", from, to)
	}
}
