package handlers

import (
	"context"

	"bizledger/internal/ai"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/services"
)

// --- mock operation service ---

type mockOperationService struct {
	createFn func(input services.OperationInput) (*models.Operation, error)
	getFn    func(id string) (*models.Operation, error)
	updateFn func(id string, update services.OperationUpdate) (*models.Operation, error)
	deleteFn func(id string) error
	listFn   func(filter services.OperationFilter, page pagination.Request) (*pagination.Page[models.Operation], error)
}

func (m *mockOperationService) CreateOperation(input services.OperationInput) (*models.Operation, error) {
	if m.createFn != nil {
		return m.createFn(input)
	}
	return &models.Operation{}, nil
}

func (m *mockOperationService) GetOperationByID(id string) (*models.Operation, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Operation{}, nil
}

func (m *mockOperationService) UpdateOperation(id string, update services.OperationUpdate) (*models.Operation, error) {
	if m.updateFn != nil {
		return m.updateFn(id, update)
	}
	return &models.Operation{}, nil
}

func (m *mockOperationService) DeleteOperation(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockOperationService) ListOperations(filter services.OperationFilter, page pagination.Request) (*pagination.Page[models.Operation], error) {
	if m.listFn != nil {
		return m.listFn(filter, page)
	}
	page.Defaults()
	p := pagination.NewPage([]models.Operation{}, page, 0)
	return &p, nil
}

var _ services.OperationServicer = (*mockOperationService)(nil)

// --- mock category service ---

type mockCategoryService struct {
	listFn   func() ([]models.Category, error)
	createFn func(name string) (*models.Category, error)
	getFn    func(id string) (*models.Category, error)
	deleteFn func(id string) error
}

func (m *mockCategoryService) ListCategories() ([]models.Category, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) CreateCategory(name string) (*models.Category, error) {
	if m.createFn != nil {
		return m.createFn(name)
	}
	return &models.Category{Name: name}, nil
}

func (m *mockCategoryService) GetCategoryByID(id string) (*models.Category, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Category{}, nil
}

func (m *mockCategoryService) DeleteCategory(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockCategoryService) EnsureDefaults() error { return nil }

var _ services.CategoryServicer = (*mockCategoryService)(nil)

// --- mock statistics service ---

type mockStatisticsService struct {
	periodFn  func(period string, r services.DateRange) ([]services.PeriodStat, error)
	byCatFn   func(r services.DateRange) ([]services.CategoryExpense, error)
	summaryFn func() (*services.Summary, error)
	monthlyFn func(r services.DateRange) ([]services.PeriodStat, error)
	inRangeFn func(r services.DateRange) ([]models.Operation, error)
}

func (m *mockStatisticsService) PeriodStatistics(period string, r services.DateRange) ([]services.PeriodStat, error) {
	if m.periodFn != nil {
		return m.periodFn(period, r)
	}
	return []services.PeriodStat{}, nil
}

func (m *mockStatisticsService) ExpensesByCategory(r services.DateRange) ([]services.CategoryExpense, error) {
	if m.byCatFn != nil {
		return m.byCatFn(r)
	}
	return []services.CategoryExpense{}, nil
}

func (m *mockStatisticsService) Summary() (*services.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn()
	}
	return &services.Summary{}, nil
}

func (m *mockStatisticsService) MonthlyTotals(r services.DateRange) ([]services.PeriodStat, error) {
	if m.monthlyFn != nil {
		return m.monthlyFn(r)
	}
	return []services.PeriodStat{}, nil
}

func (m *mockStatisticsService) OperationsInRange(r services.DateRange) ([]models.Operation, error) {
	if m.inRangeFn != nil {
		return m.inRangeFn(r)
	}
	return []models.Operation{}, nil
}

var _ services.StatisticsServicer = (*mockStatisticsService)(nil)

// --- mock analysis service ---

type mockAnalysisService struct {
	saveFn         func(input services.AnalysisInput) (*models.Analysis, error)
	listFn         func(filter services.AnalysisFilter) ([]models.Analysis, error)
	getFn          func(id string) (*models.Analysis, error)
	deleteFn       func(id string) error
	deleteByTypeFn func(analysisType string) (int64, error)
	toggleFn       func(id string) (*models.Analysis, error)
}

func (m *mockAnalysisService) SaveAnalysis(input services.AnalysisInput) (*models.Analysis, error) {
	if m.saveFn != nil {
		return m.saveFn(input)
	}
	return &models.Analysis{Type: input.Type, Title: input.Title, Content: input.Content}, nil
}

func (m *mockAnalysisService) ListAnalyses(filter services.AnalysisFilter) ([]models.Analysis, error) {
	if m.listFn != nil {
		return m.listFn(filter)
	}
	return []models.Analysis{}, nil
}

func (m *mockAnalysisService) GetAnalysis(id string) (*models.Analysis, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return &models.Analysis{}, nil
}

func (m *mockAnalysisService) DeleteAnalysis(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockAnalysisService) DeleteAnalysesByType(analysisType string) (int64, error) {
	if m.deleteByTypeFn != nil {
		return m.deleteByTypeFn(analysisType)
	}
	return 0, nil
}

func (m *mockAnalysisService) ToggleFavorite(id string) (*models.Analysis, error) {
	if m.toggleFn != nil {
		return m.toggleFn(id)
	}
	return &models.Analysis{IsFavorite: true}, nil
}

var _ services.AnalysisServicer = (*mockAnalysisService)(nil)

// --- mock forecast service ---

type mockForecastService struct {
	listFn func(limit int) ([]models.Forecast, error)
}

func (m *mockForecastService) SaveForecast(*models.Forecast) error { return nil }

func (m *mockForecastService) ListForecasts(limit int) ([]models.Forecast, error) {
	if m.listFn != nil {
		return m.listFn(limit)
	}
	return []models.Forecast{}, nil
}

var _ services.ForecastServicer = (*mockForecastService)(nil)

// --- mock chat log ---

type mockChatLogger struct {
	logged    []services.ChatTurnInput
	historyFn func(limit int) ([]models.ChatTurn, error)
}

func (m *mockChatLogger) Log(turn services.ChatTurnInput) {
	m.logged = append(m.logged, turn)
}

func (m *mockChatLogger) History(limit int) ([]models.ChatTurn, error) {
	if m.historyFn != nil {
		return m.historyFn(limit)
	}
	return []models.ChatTurn{}, nil
}

var _ services.ChatLogger = (*mockChatLogger)(nil)

// --- mock advisor ---

type mockAdvisor struct {
	economyFn  func(ctx context.Context) (*ai.Result, error)
	quarterFn  func(ctx context.Context) (*ai.Result, error)
	forecastFn func(ctx context.Context) (*ai.Result, error)
	chatFn     func(ctx context.Context, message, chatContext string) (*ai.ChatReply, error)
	refreshFn  func(ctx context.Context) (*ai.DataSnapshot, error)
}

func (m *mockAdvisor) EconomyTips(ctx context.Context) (*ai.Result, error) {
	if m.economyFn != nil {
		return m.economyFn(ctx)
	}
	return &ai.Result{}, nil
}

func (m *mockAdvisor) QuarterReport(ctx context.Context) (*ai.Result, error) {
	if m.quarterFn != nil {
		return m.quarterFn(ctx)
	}
	return &ai.Result{}, nil
}

func (m *mockAdvisor) Forecast(ctx context.Context) (*ai.Result, error) {
	if m.forecastFn != nil {
		return m.forecastFn(ctx)
	}
	return &ai.Result{}, nil
}

func (m *mockAdvisor) Chat(ctx context.Context, message, chatContext string) (*ai.ChatReply, error) {
	if m.chatFn != nil {
		return m.chatFn(ctx, message, chatContext)
	}
	return &ai.ChatReply{Response: "ok", Context: chatContext}, nil
}

func (m *mockAdvisor) RefreshData(ctx context.Context) (*ai.DataSnapshot, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx)
	}
	return &ai.DataSnapshot{}, nil
}

func (m *mockAdvisor) ProviderName() string     { return "offline" }
func (m *mockAdvisor) ProviderConfigured() bool { return false }

var _ ai.AdvisorService = (*mockAdvisor)(nil)
