package ai

import (
	"fmt"
	"strings"
)

// Intent is a rule-based chat classification used without a provider.
type Intent string

// Chat intents in match order.
const (
	IntentEconomy      Intent = "economy"
	IntentReport       Intent = "report"
	IntentForecast     Intent = "forecast"
	IntentExpenseQuery Intent = "expense_query"
	IntentGreeting     Intent = "greeting"
	IntentHelp         Intent = "help"
	IntentDefault      Intent = "default"
)

type intentRule struct {
	intent   Intent
	keywords []string // substrings
	exact    []string // whole words
	needData bool
}

// intentRules is checked top to bottom and the first match wins, so a message
// naming both savings and a forecast is an economy question. Keywords match
// anywhere in the lower-cased message. Greetings match whole words only so
// that "this" is not read as "hi".
var intentRules = []intentRule{
	{intent: IntentEconomy, keywords: []string{"econom", "saving", "save", "reduce"}, needData: true},
	{intent: IntentReport, keywords: []string{"report", "statistic", "stats", "summar"}, needData: true},
	{intent: IntentForecast, keywords: []string{"forecast", "predict", "expect", "outlook"}, needData: true},
	{intent: IntentExpenseQuery, keywords: []string{"spent", "spend", "expense", "how much"}, needData: true},
	{intent: IntentGreeting, exact: []string{"hello", "hi", "hey", "greetings"}},
	{intent: IntentHelp, keywords: []string{"help"}},
}

const (
	greetingReply = "Hello! I am your financial assistant. I can analyze your expenses, " +
		"suggest where to save or build a forecast."
	helpReply = "I can:\n" +
		"- Analyze your expenses and suggest savings\n" +
		"- Build a quarterly financial report\n" +
		"- Forecast next month\n" +
		"- Answer questions about your finances\n\n" +
		"Use the quick actions or ask a specific question."
	defaultReply = "I am a financial assistant. I can help analyze your financial data. " +
		"Ask a specific question or use the quick actions."
)

// ClassifyIntent returns the first matching intent for message. Data-bound
// intents only match when hasData is true.
func ClassifyIntent(message string, hasData bool) Intent {
	lower := strings.ToLower(message)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})

	for _, rule := range intentRules {
		if rule.needData && !hasData {
			continue
		}
		if rule.matches(lower, words) {
			return rule.intent
		}
	}
	return IntentDefault
}

func (r intentRule) matches(lower string, words []string) bool {
	for _, k := range r.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, w := range words {
		for _, e := range r.exact {
			if w == e {
				return true
			}
		}
	}
	return false
}

// RuleBasedReply answers a chat message from the month snapshot without a
// completion provider.
func RuleBasedReply(message string, snap *Snapshot) (Intent, string) {
	intent := ClassifyIntent(message, snap.HasData())

	switch intent {
	case IntentEconomy:
		return intent, RenderEconomyReport(snap)
	case IntentReport:
		return intent, RenderQuarterReport(snap)
	case IntentForecast:
		outlook := "positive trend"
		if snap.Statistics.Balance.IsNegative() {
			outlook = "expenses need optimization"
		}
		return intent, fmt.Sprintf("Based on your data I can build a forecast. "+
			"Use the monthly forecast for a detailed analysis.\n\nIn short: %s.", outlook)
	case IntentExpenseQuery:
		reply := fmt.Sprintf("This month you spent %s.", money(snap.Statistics.TotalExpense))
		if names := snap.topCategoryNames(3); len(names) > 0 {
			reply += "\nMain categories: " + strings.Join(names, ", ") + "."
		}
		return intent, reply
	case IntentGreeting:
		return intent, greetingReply
	case IntentHelp:
		return intent, helpReply
	default:
		return intent, defaultReply
	}
}

var enrichmentKeywords = []string{"analy", "data", "expense", "spend", "saving", "econom", "budget", "profit"}

// needsEnrichment reports whether a chat message asks about the user's numbers.
func needsEnrichment(message string) bool {
	lower := strings.ToLower(message)
	for _, k := range enrichmentKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// enrichMessage prefixes message with a short statistics summary.
func enrichMessage(message string, snap *Snapshot) string {
	var b strings.Builder
	b.WriteString("USER DATA CONTEXT:\n")
	fmt.Fprintf(&b, "- Expense categories: %d\n", len(snap.Categories))
	if len(snap.Categories) > 0 {
		parts := make([]string, 0, 3)
		for i, c := range snap.Categories {
			if i == 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s: %s", c.Name, money(c.Total)))
		}
		fmt.Fprintf(&b, "- Top 3 categories: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "- Total expenses this month: %s\n", money(snap.Statistics.TotalExpense))
	fmt.Fprintf(&b, "- Profit: %s\n", money(snap.Statistics.Balance))
	b.WriteString("\nUSER QUESTION: ")
	b.WriteString(message)
	return b.String()
}
