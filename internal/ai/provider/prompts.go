package provider

// Chat contexts.
const (
	ContextEconomy  = "economy"
	ContextReport   = "report"
	ContextForecast = "forecast"
	ContextGeneral  = "general"
)

var systemPrompts = map[string]string{
	ContextEconomy: "You are a financial consultant for a small business. Analyze expenses and give " +
		"concrete cost-saving recommendations. Be practical, use figures and clear steps.",
	ContextReport: "You are a financial analyst. Produce structured reports with headings, bullet " +
		"points and clear conclusions.",
	ContextForecast: "You are a financial forecaster. Make realistic projections and state the " +
		"assumptions and risks behind them.",
	ContextGeneral: "You are a financial assistant for a small business. Answer briefly, " +
		"informatively and professionally. Help with finances, budgeting and planning.",
}

var fallbackTexts = map[string]string{
	ContextEconomy: "## Cost-saving recommendations\n\n" +
		"The AI service is unavailable right now. General advice:\n" +
		"1. Review recurring services such as accounting and software subscriptions.\n" +
		"2. Buy stationery and consumables in bulk.\n" +
		"3. Renegotiate rent and internet contracts once a year.",
	ContextReport: "# Financial report\n\n" +
		"The AI service is unavailable right now. Add operations and try again for a detailed analysis.",
	ContextForecast: "## Forecast\n\n" +
		"The AI service is unavailable right now. Add historical data for an accurate forecast.",
	ContextGeneral: "Hello! I am your financial assistant. The AI service is unavailable right now, " +
		"but I can still summarize your expenses, build reports and forecasts from your data.",
}

// SystemPrompt returns the system prompt for a chat context.
// Unknown contexts map to general.
func SystemPrompt(context string) string {
	if p, ok := systemPrompts[context]; ok {
		return p
	}
	return systemPrompts[ContextGeneral]
}

// FallbackText returns the canned reply used when a completion fails.
// Unknown contexts map to general.
func FallbackText(context string) string {
	if t, ok := fallbackTexts[context]; ok {
		return t
	}
	return fallbackTexts[ContextGeneral]
}
