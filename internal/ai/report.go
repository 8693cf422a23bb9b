package ai

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bizledger/internal/services"
)

const (
	topCategoryShareLimit = 30
	expenseIncomeLimit    = 80
	strongSavingsRate     = 20
)

var (
	savingsShare       = decimal.NewFromFloat(0.15)
	incomeGrowth       = decimal.NewFromFloat(1.05)
	expenseGrowth      = decimal.NewFromFloat(1.03)
	forecastConfidence = 0.7
	hundred            = decimal.NewFromInt(100)
)

// Static messages returned when the window has no operations.
const (
	noDataEconomy = "## Expense analysis\n\n" +
		"There are no operations for the current month yet.\n\n" +
		"**What you can do:**\n" +
		"1. Add a few income and expense operations\n" +
		"2. Assign categories to expenses\n" +
		"3. Fill in descriptions for a better analysis\n\n" +
		"Once data is added I can give concrete cost-saving recommendations."
	noDataQuarter = "## Quarterly financial report\n\n" +
		"There were no operations in the current quarter.\n\n" +
		"**Recommendations:**\n" +
		"1. Start recording income and expenses\n" +
		"2. Add operations regularly\n" +
		"3. Assign categories for a better analysis\n\n" +
		"Detailed reports become available once data accumulates."
	noDataForecast = "## Financial forecast for next month\n\n" +
		"There is not enough data for a forecast.\n\n" +
		"**What to do:**\n" +
		"1. Add operations for the current month\n" +
		"2. Keep records regularly\n" +
		"3. In a month there will be enough data for forecasting"
)

// EconomyInsights are the structured findings stored with economy tips.
type EconomyInsights struct {
	CriticalCategories    []string        `json:"critical_categories"`
	PotentialSavings      decimal.Decimal `json:"potential_savings"`
	LargeExpensesCount    int             `json:"large_expenses_count"`
	FrequentSmallExpenses int             `json:"frequent_small_expenses"`
}

// NewEconomyInsights derives insights from a month snapshot.
func NewEconomyInsights(s *Snapshot) EconomyInsights {
	return EconomyInsights{
		CriticalCategories:    s.topCategoryNames(3),
		PotentialSavings:      s.Statistics.TotalExpense.Mul(savingsShare).Round(0),
		LargeExpensesCount:    len(s.TopExpenses),
		FrequentSmallExpenses: s.FrequentSmallExpenses,
	}
}

// RenderEconomyReport renders the deterministic cost-saving report.
func RenderEconomyReport(s *Snapshot) string {
	st := s.Statistics
	var b strings.Builder

	fmt.Fprintf(&b, "## Expense analysis for %s\n\n", s.Window.Label)
	b.WriteString("**Key figures:**\n")
	fmt.Fprintf(&b, "- Total expenses: %s\n", money(st.TotalExpense))
	fmt.Fprintf(&b, "- Total income: %s\n", money(st.TotalIncome))
	fmt.Fprintf(&b, "- Balance: %s\n", money(st.Balance))
	fmt.Fprintf(&b, "- Operations: %d\n\n", st.TotalOperations)

	if len(s.Categories) > 0 {
		b.WriteString("**Expenses by category (top 5):**\n")
		for i, c := range s.Categories {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s: %s (%d%%, %d operations)\n",
				i+1, c.Name, money(c.Total), share(c.Total, st.TotalExpense), c.Count)
		}
		b.WriteString("\n")
	}

	if len(s.TopExpenses) > 0 {
		b.WriteString("**Largest expenses:**\n")
		for i, e := range s.TopExpenses {
			desc := e.Description
			if desc == "" {
				desc = "No description"
			}
			fmt.Fprintf(&b, "%d. %s - %s (%s)\n", i+1, money(e.Amount), desc, e.Category)
		}
		b.WriteString("\n")
	}

	if s.FrequentSmallExpenses > frequentSmallThreshold {
		fmt.Fprintf(&b, "**Attention:** you have %d small expenses (under %d). They can add up to a significant amount.\n\n",
			s.FrequentSmallExpenses, smallExpenseThreshold)
	}

	b.WriteString("**Recommendations:**\n")
	if len(s.Categories) > 0 {
		top := s.Categories[0]
		if pct := share(top.Total, st.TotalExpense); pct > topCategoryShareLimit {
			fmt.Fprintf(&b, "- **%s** takes %d%% of your expenses. Consider cutting it down.\n", top.Name, pct)
		}
		limit := st.TotalIncome.Mul(decimal.NewFromInt(expenseIncomeLimit)).Div(hundred)
		if st.TotalExpense.GreaterThan(limit) {
			fmt.Fprintf(&b, "- Expenses exceed %d%% of income. Increase your savings rate.\n", expenseIncomeLimit)
		}
		if s.FrequentSmallExpenses > 0 {
			b.WriteString("- Combine small purchases to keep spending under control.\n")
		}
	} else {
		b.WriteString("- Assign categories to expenses for a more detailed analysis.\n")
		b.WriteString("- Fill in operation descriptions for more precise advice.\n")
	}

	b.WriteString("\n**Next steps:**\n")
	b.WriteString("- Set a monthly budget for key categories\n")
	b.WriteString("- Track progress every week\n")
	b.WriteString("- Use the forecast to plan ahead\n")

	return b.String()
}

// SavingsRate returns balance / income as a whole percentage, 0 without income.
func SavingsRate(st Statistics) int {
	if !st.TotalIncome.IsPositive() {
		return 0
	}
	return int(st.Balance.Mul(hundred).Div(st.TotalIncome).Round(0).IntPart())
}

// RenderQuarterReport renders the deterministic quarterly report.
func RenderQuarterReport(s *Snapshot) string {
	st := s.Statistics
	var b strings.Builder

	b.WriteString("## Quarterly financial report\n")
	fmt.Fprintf(&b, "Period: %s (%s to %s)\n\n", s.Window.Label, s.Window.From, s.Window.To)

	b.WriteString("**Financial results:**\n")
	fmt.Fprintf(&b, "- Total income: %s\n", money(st.TotalIncome))
	fmt.Fprintf(&b, "- Total expenses: %s\n", money(st.TotalExpense))
	fmt.Fprintf(&b, "- Net result: %s\n", money(st.Balance))
	fmt.Fprintf(&b, "- Savings rate: %d%%\n", SavingsRate(st))
	fmt.Fprintf(&b, "- Operations: %d\n\n", st.TotalOperations)

	if len(s.Categories) > 0 {
		b.WriteString("**Expense structure:**\n")
		for i, c := range s.Categories {
			fmt.Fprintf(&b, "%d. %s: %s (%d%%)\n", i+1, c.Name, money(c.Total), share(c.Total, st.TotalExpense))
		}
		b.WriteString("\n")
	}

	b.WriteString("**Performance:**\n")
	if st.Balance.IsPositive() {
		b.WriteString("- Positive financial result\n")
		if SavingsRate(st) > strongSavingsRate {
			fmt.Fprintf(&b, "- Excellent savings rate (over %d%%)\n", strongSavingsRate)
		}
	} else {
		b.WriteString("- Negative balance. Review the structure of your expenses.\n")
	}

	b.WriteString("\n**Recommendations for next quarter:**\n")
	if len(s.Categories) > 0 {
		fmt.Fprintf(&b, "- Pay attention to \"%s\", the most expensive category\n", s.Categories[0].Name)
	}
	b.WriteString("- Plan large purchases in advance\n")
	b.WriteString("- Track budget progress regularly\n")
	b.WriteString("- Consider investing part of the savings\n")

	return b.String()
}

// Projection is the structured next-month forecast.
type Projection struct {
	ForecastDate      string                `json:"forecast_date"`
	History           []services.PeriodStat `json:"history"`
	Current           Statistics            `json:"current"`
	BaselineIncome    decimal.Decimal       `json:"baseline_income"`
	BaselineExpense   decimal.Decimal       `json:"baseline_expense"`
	PredictedIncome   decimal.Decimal       `json:"predicted_income"`
	PredictedExpense  decimal.Decimal       `json:"predicted_expense"`
	PredictedProfit   decimal.Decimal       `json:"predicted_profit"`
	Confidence        float64               `json:"confidence"`
	CategoriesToWatch []string              `json:"categories_to_watch"`
}

// NewProjection projects next month from the current month's totals. When
// the current month has no operations the most recent previous month is the
// baseline. history is chronological.
func NewProjection(history []services.PeriodStat, current *Snapshot) Projection {
	p := Projection{
		ForecastDate:      current.Window.From.AddMonths(1).String(),
		History:           history,
		Current:           current.Statistics,
		Confidence:        forecastConfidence,
		CategoriesToWatch: current.topCategoryNames(3),
		BaselineIncome:    current.Statistics.TotalIncome,
		BaselineExpense:   current.Statistics.TotalExpense,
	}
	if !current.HasData() && len(history) > 0 {
		latest := history[len(history)-1]
		p.BaselineIncome = latest.TotalIncome
		p.BaselineExpense = latest.TotalExpense
	}

	p.PredictedIncome = p.BaselineIncome.Mul(incomeGrowth).Round(2)
	p.PredictedExpense = p.BaselineExpense.Mul(expenseGrowth).Round(2)
	p.PredictedProfit = p.PredictedIncome.Sub(p.PredictedExpense)
	return p
}

// Assumptions describes the projection inputs in one line.
func (p Projection) Assumptions() string {
	basis := "the current month"
	if p.Current.TotalOperations == 0 && len(p.History) > 0 {
		basis = "the most recent month with operations"
	}
	return fmt.Sprintf("Income grows 5%% and expenses grow 3%% over %s.", basis)
}

// Recommendations lists the follow-up actions for the forecast.
func (p Projection) Recommendations() string {
	lines := []string{"Keep the current income structure."}
	if len(p.CategoriesToWatch) > 0 {
		lines = append(lines, "Watch expense growth in: "+strings.Join(p.CategoriesToWatch, ", ")+".")
	}
	lines = append(lines, "Build a reserve covering 3 to 6 months of expenses.")
	return strings.Join(lines, "\n")
}

// RenderForecast renders the projection as text.
func RenderForecast(p Projection) string {
	var b strings.Builder

	b.WriteString("## Financial forecast for next month\n\n")

	if len(p.History) > 0 {
		fmt.Fprintf(&b, "**Historical data (%d months):**\n", len(p.History))
		for _, h := range p.History {
			fmt.Fprintf(&b, "- %s: income %s, expenses %s\n", h.Period, money(h.TotalIncome), money(h.TotalExpense))
		}
		b.WriteString("\n")
	}

	b.WriteString("**Current month:**\n")
	fmt.Fprintf(&b, "- Income: %s\n", money(p.Current.TotalIncome))
	fmt.Fprintf(&b, "- Expenses: %s\n", money(p.Current.TotalExpense))
	fmt.Fprintf(&b, "- Balance: %s\n\n", money(p.Current.Balance))

	fmt.Fprintf(&b, "**Forecast for %s:**\n", p.ForecastDate)
	fmt.Fprintf(&b, "- Expected income: %s (±10%%)\n", money(p.PredictedIncome))
	fmt.Fprintf(&b, "- Expected expenses: %s (±15%%)\n", money(p.PredictedExpense))
	fmt.Fprintf(&b, "- Projected profit: %s\n", money(p.PredictedProfit))
	fmt.Fprintf(&b, "- Confidence: %d%%\n\n", int(p.Confidence*100))

	b.WriteString("**Recommendations:**\n")
	for _, line := range strings.Split(p.Recommendations(), "\n") {
		b.WriteString("- " + line + "\n")
	}
	return b.String()
}

// RenderPrompt combines the collected data and the local report into the
// message sent to a completion provider.
func RenderPrompt(task, report string, data any) string {
	var b strings.Builder
	b.WriteString(task)
	b.WriteString("\n\nDATA:\n")
	b.WriteString(compactJSON(data))
	b.WriteString("\n\nPRELIMINARY REPORT:\n")
	b.WriteString(report)
	return b.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// share returns part/total as a rounded whole percentage.
func share(part, total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(part.Mul(hundred).Div(total).Round(0).IntPart())
}
