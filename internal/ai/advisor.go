package ai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bizledger/internal/ai/provider"
	apperrors "bizledger/internal/errors"
	"bizledger/internal/logger"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// Result is the outcome of a generator call.
type Result struct {
	Content    string `json:"content"`
	Title      string `json:"title,omitempty"`
	Tokens     int    `json:"tokens"`
	Provider   string `json:"provider"`
	IsFallback bool   `json:"is_fallback"`
	Saved      bool   `json:"saved"`
	AnalysisID string `json:"saved_id,omitempty"`
	Data       any    `json:"metadata,omitempty"`
}

// ChatReply is the outcome of one chat turn.
type ChatReply struct {
	Response   string `json:"response"`
	Context    string `json:"context"`
	Intent     Intent `json:"intent,omitempty"`
	Tokens     int    `json:"tokens"`
	Provider   string `json:"provider"`
	IsFallback bool   `json:"is_fallback"`
	HasData    bool   `json:"has_data"`
}

// RecentOperation is a trimmed operation in a data refresh snapshot.
type RecentOperation struct {
	ID            string               `json:"id"`
	Type          models.OperationType `json:"type"`
	Amount        decimal.Decimal      `json:"amount"`
	Description   string               `json:"description"`
	CategoryName  *string              `json:"category_name"`
	OperationDate models.Date          `json:"operation_date"`
}

// DataSnapshot is the payload of a data refresh.
type DataSnapshot struct {
	OperationsCount      int64                      `json:"operations_count"`
	CategoriesCount      int                        `json:"categories_count"`
	ExpenseCategories    int                        `json:"expense_categories"`
	TotalExpenses        decimal.Decimal            `json:"total_expenses"`
	LastUpdated          time.Time                  `json:"last_updated"`
	TopExpenseCategories []services.CategoryExpense `json:"top_expense_categories"`
	RecentOperations     []RecentOperation          `json:"recent_operations"`
}

// AdvisorService defines the contract for the AI endpoints.
type AdvisorService interface {
	EconomyTips(ctx context.Context) (*Result, error)
	QuarterReport(ctx context.Context) (*Result, error)
	Forecast(ctx context.Context) (*Result, error)
	Chat(ctx context.Context, message, chatContext string) (*ChatReply, error)
	RefreshData(ctx context.Context) (*DataSnapshot, error)
	ProviderName() string
	ProviderConfigured() bool
}

// Dependencies are the collaborators of an Advisor.
type Dependencies struct {
	Statistics services.StatisticsServicer
	Categories services.CategoryServicer
	Operations services.OperationServicer
	Analyses   services.AnalysisServicer
	Forecasts  services.ForecastServicer
	Chats      services.ChatLogger
	Provider   provider.Provider
	Now        func() time.Time // defaults to time.Now
}

// Advisor generates analyses from stored operations, delegating prose to a
// completion provider when one is configured.
type Advisor struct {
	stats      services.StatisticsServicer
	categories services.CategoryServicer
	operations services.OperationServicer
	analyses   services.AnalysisServicer
	forecasts  services.ForecastServicer
	chats      services.ChatLogger
	provider   provider.Provider
	collector  *Collector
	now        func() time.Time
	log        *zap.SugaredLogger
}

var _ AdvisorService = (*Advisor)(nil)

// NewAdvisor creates a new Advisor. A nil provider behaves as offline.
func NewAdvisor(deps Dependencies) *Advisor {
	if deps.Provider == nil {
		deps.Provider = provider.Offline{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Advisor{
		stats:      deps.Statistics,
		categories: deps.Categories,
		operations: deps.Operations,
		analyses:   deps.Analyses,
		forecasts:  deps.Forecasts,
		chats:      deps.Chats,
		provider:   deps.Provider,
		collector:  NewCollector(deps.Statistics),
		now:        deps.Now,
		log:        logger.Named("advisor"),
	}
}

// ProviderName returns the configured provider name.
func (a *Advisor) ProviderName() string { return a.provider.Name() }

// ProviderConfigured reports whether the provider has credentials.
func (a *Advisor) ProviderConfigured() bool { return a.provider.Configured() }

// generation describes one analysis to produce and persist.
type generation struct {
	analysisType string
	context      string
	title        string
	task         string
	report       string
	data         any
}

// EconomyTips analyzes the current month and suggests savings.
func (a *Advisor) EconomyTips(ctx context.Context) (*Result, error) {
	snap, err := a.collector.Collect(PeriodMonth, a.now())
	if err != nil {
		return nil, err
	}
	if !snap.HasData() {
		return &Result{
			Content:    noDataEconomy,
			Provider:   provider.NameOffline,
			IsFallback: !a.provider.Configured(),
			Data:       map[string]any{"has_data": false, "window": snap.Window},
		}, nil
	}

	insights := NewEconomyInsights(snap)
	data := map[string]any{
		"has_data":   true,
		"snapshot":   snap,
		"insights":   insights,
		"period":     snap.Window,
		"statistics": snap.Statistics,
	}
	return a.generate(ctx, generation{
		analysisType: models.AnalysisTypeEconomyTips,
		context:      provider.ContextEconomy,
		title:        "Cost-saving analysis for " + snap.Window.Label,
		task:         "Analyze the expenses below and give concrete cost-saving recommendations.",
		report:       RenderEconomyReport(snap),
		data:         data,
	}), nil
}

// QuarterReport summarizes the current calendar quarter.
func (a *Advisor) QuarterReport(ctx context.Context) (*Result, error) {
	snap, err := a.collector.Collect(PeriodQuarter, a.now())
	if err != nil {
		return nil, err
	}
	if !snap.HasData() {
		return &Result{
			Content:    noDataQuarter,
			Provider:   provider.NameOffline,
			IsFallback: !a.provider.Configured(),
			Data:       map[string]any{"has_data": false, "window": snap.Window},
		}, nil
	}

	data := map[string]any{
		"has_data":     true,
		"snapshot":     snap,
		"savings_rate": SavingsRate(snap.Statistics),
		"period":       snap.Window,
	}
	return a.generate(ctx, generation{
		analysisType: models.AnalysisTypeQuarterReport,
		context:      provider.ContextReport,
		title:        "Quarterly report " + snap.Window.Label,
		task:         "Write a structured quarterly financial report from the data below.",
		report:       RenderQuarterReport(snap),
		data:         data,
	}), nil
}

// Forecast projects next month from the last three months and the current one.
func (a *Advisor) Forecast(ctx context.Context) (*Result, error) {
	now := a.now()
	current, err := a.collector.Collect(PeriodMonth, now)
	if err != nil {
		return nil, err
	}

	historyFrom := current.Window.From.AddMonths(-3)
	historyTo := models.NewDate(current.Window.From.AddDate(0, 0, -1))
	history, err := a.stats.MonthlyTotals(services.DateRange{From: &historyFrom, To: &historyTo})
	if err != nil {
		return nil, err
	}

	if len(history) == 0 && !current.HasData() {
		return &Result{
			Content:    noDataForecast,
			Provider:   provider.NameOffline,
			IsFallback: !a.provider.Configured(),
			Data:       map[string]any{"has_data": false},
		}, nil
	}

	projection := NewProjection(history, current)
	result := a.generate(ctx, generation{
		analysisType: models.AnalysisTypeForecast,
		context:      provider.ContextForecast,
		title:        "Forecast for " + projection.ForecastDate,
		task:         "Write a next-month financial forecast from the projection below. State assumptions and risks.",
		report:       RenderForecast(projection),
		data:         map[string]any{"has_data": true, "projection": projection},
	})

	forecastDate, _ := models.ParseDate(projection.ForecastDate)
	record := &models.Forecast{
		ForecastDate:     forecastDate,
		ForecastType:     models.ForecastTypeMonthly,
		PredictedIncome:  projection.PredictedIncome,
		PredictedExpense: projection.PredictedExpense,
		Confidence:       projection.Confidence,
		Assumptions:      projection.Assumptions(),
		Recommendations:  projection.Recommendations(),
	}
	if result.Saved {
		id := result.AnalysisID
		record.AnalysisID = &id
	}
	if err := a.forecasts.SaveForecast(record); err != nil {
		a.log.Errorw("failed to save forecast record", "error", err, "forecast_date", projection.ForecastDate)
	}

	return result, nil
}

// generate asks the provider for prose, falls back to the local report and
// persists the outcome. Persistence failures only clear Saved.
func (a *Advisor) generate(ctx context.Context, g generation) *Result {
	result := &Result{
		Content:    g.report,
		Title:      g.title,
		Provider:   provider.NameOffline,
		IsFallback: true,
		Data:       g.data,
	}

	if a.provider.Configured() {
		completion, err := a.provider.Complete(ctx, provider.Request{
			Context: g.context,
			System:  provider.SystemPrompt(g.context),
			Message: RenderPrompt(g.task, g.report, g.data),
		})
		if err != nil {
			a.log.Warnw("completion failed, using local report",
				"provider", a.provider.Name(),
				"analysis_type", g.analysisType,
				"error", err,
			)
		} else {
			result.Content = completion.Text
			result.Tokens = completion.Tokens
			result.Provider = completion.Provider
			result.IsFallback = false
		}
	}

	saved, err := a.analyses.SaveAnalysis(services.AnalysisInput{
		Type:        g.analysisType,
		Title:       g.title,
		Content:     result.Content,
		Tokens:      result.Tokens,
		DataContext: json.RawMessage(compactJSON(g.data)),
		IsFallback:  result.IsFallback,
		Provider:    result.Provider,
	})
	if err != nil {
		a.log.Errorw("failed to save analysis", "error", err, "analysis_type", g.analysisType)
		return result
	}

	result.Saved = true
	result.AnalysisID = saved.ID
	return result
}

// Chat answers one message. With a configured provider the message is sent
// with the context prompt; otherwise rule-based intents answer from the
// month snapshot. Every turn is logged.
func (a *Advisor) Chat(ctx context.Context, message, chatContext string) (*ChatReply, error) {
	if message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message is required")
	}
	if chatContext == "" {
		chatContext = provider.ContextGeneral
	}

	snap, err := a.collector.Collect(PeriodMonth, a.now())
	if err != nil {
		a.log.Warnw("chat continues without data", "error", err)
		snap = nil
	}

	reply := &ChatReply{
		Context:  chatContext,
		Provider: provider.NameOffline,
		HasData:  snap.HasData(),
	}

	if a.provider.Configured() {
		prompt := message
		if snap != nil && needsEnrichment(message) {
			prompt = enrichMessage(message, snap)
		}

		completion, err := a.provider.Complete(ctx, provider.Request{
			Context: chatContext,
			System:  provider.SystemPrompt(chatContext),
			Message: prompt,
		})
		if err != nil {
			a.log.Warnw("chat completion failed, using fallback text",
				"provider", a.provider.Name(),
				"context", chatContext,
				"error", err,
			)
			reply.Response = provider.FallbackText(chatContext)
			reply.IsFallback = true
		} else {
			reply.Response = completion.Text
			reply.Tokens = completion.Tokens
			reply.Provider = completion.Provider
		}
	} else {
		reply.Intent, reply.Response = RuleBasedReply(message, snap)
		reply.IsFallback = true
	}

	a.chats.Log(services.ChatTurnInput{
		UserMessage: message,
		Response:    reply.Response,
		Context:     chatContext,
		Tokens:      reply.Tokens,
		Metadata: map[string]any{
			"timestamp":   a.now().UTC().Format(time.RFC3339),
			"has_data":    reply.HasData,
			"is_fallback": reply.IsFallback,
			"provider":    reply.Provider,
			"intent":      reply.Intent,
		},
	})

	return reply, nil
}

// RefreshData returns a current snapshot of stored data.
func (a *Advisor) RefreshData(_ context.Context) (*DataSnapshot, error) {
	expenses, err := a.stats.ExpensesByCategory(services.DateRange{})
	if err != nil {
		return nil, err
	}
	categories, err := a.categories.ListCategories()
	if err != nil {
		return nil, err
	}
	summary, err := a.stats.Summary()
	if err != nil {
		return nil, err
	}
	recent, err := a.operations.ListOperations(services.OperationFilter{}, pagination.Request{Limit: recentOperationsLimit})
	if err != nil {
		return nil, err
	}

	snapshot := &DataSnapshot{
		OperationsCount:      summary.IncomeCount + summary.ExpenseCount,
		CategoriesCount:      len(categories),
		ExpenseCategories:    len(expenses),
		TotalExpenses:        summary.TotalExpense,
		LastUpdated:          a.now().UTC(),
		TopExpenseCategories: expenses,
		RecentOperations:     make([]RecentOperation, 0, len(recent.Items)),
	}
	if len(snapshot.TopExpenseCategories) > 3 {
		snapshot.TopExpenseCategories = snapshot.TopExpenseCategories[:3]
	}
	for _, op := range recent.Items {
		snapshot.RecentOperations = append(snapshot.RecentOperations, RecentOperation{
			ID:            op.ID,
			Type:          op.Type,
			Amount:        op.Amount,
			Description:   op.Description,
			CategoryName:  op.CategoryName,
			OperationDate: op.OperationDate,
		})
	}
	return snapshot, nil
}

const recentOperationsLimit = 5

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
