package services

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// DateRange is an inclusive calendar-day window. Nil bounds are open.
type DateRange struct {
	From *models.Date
	To   *models.Date
}

// apply adds the range bounds on column to the query.
func (r DateRange) apply(db *gorm.DB, column string) *gorm.DB {
	if r.From != nil && !r.From.IsZero() {
		db = db.Where(column+" >= ?", r.From.String())
	}
	if r.To != nil && !r.To.IsZero() {
		db = db.Where(column+" <= ?", r.To.String())
	}
	return db
}

// OperationInput holds the fields accepted when creating an operation.
type OperationInput struct {
	Type          models.OperationType
	Amount        decimal.Decimal
	Description   string
	CategoryID    *string
	OperationDate *models.Date
}

// OperationUpdate holds a partial update. Nil fields keep their stored value,
// except the category which is recomputed from the resulting type.
type OperationUpdate struct {
	Type          *models.OperationType
	Amount        *decimal.Decimal
	Description   *string
	CategoryID    *string
	OperationDate *models.Date
}

// OperationFilter holds optional filter parameters for listing operations.
type OperationFilter struct {
	Type       *models.OperationType
	CategoryID *string
	Range      DateRange
}

// OperationServicer defines the contract for operation bookkeeping.
type OperationServicer interface {
	CreateOperation(input OperationInput) (*models.Operation, error)
	GetOperationByID(id string) (*models.Operation, error)
	UpdateOperation(id string, update OperationUpdate) (*models.Operation, error)
	DeleteOperation(id string) error
	ListOperations(filter OperationFilter, page pagination.Request) (*pagination.Page[models.Operation], error)
}

// CategoryServicer defines the contract for category management.
type CategoryServicer interface {
	ListCategories() ([]models.Category, error)
	CreateCategory(name string) (*models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	DeleteCategory(id string) error
	EnsureDefaults() error
}

// PeriodStat aggregates operations inside one calendar bucket.
type PeriodStat struct {
	Period       string          `json:"period"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	IncomeCount  int64           `json:"income_count"`
	ExpenseCount int64           `json:"expense_count"`
	Balance      decimal.Decimal `json:"balance" gorm:"-"`
}

// CategoryExpense is one row of the expenses-by-category rollup.
type CategoryExpense struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	OperationsCount int64           `json:"operations_count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AvgAmount       decimal.Decimal `json:"avg_amount"`
}

// Summary is the lifetime aggregate over all operations.
type Summary struct {
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	IncomeCount    int64           `json:"income_count"`
	ExpenseCount   int64           `json:"expense_count"`
	FirstOperation models.Date     `json:"first_operation"`
	LastOperation  models.Date     `json:"last_operation"`
	Balance        decimal.Decimal `json:"balance" gorm:"-"`
}

// StatisticsServicer defines the read-side aggregation contract.
type StatisticsServicer interface {
	PeriodStatistics(period string, r DateRange) ([]PeriodStat, error)
	ExpensesByCategory(r DateRange) ([]CategoryExpense, error)
	Summary() (*Summary, error)
	MonthlyTotals(r DateRange) ([]PeriodStat, error)
	OperationsInRange(r DateRange) ([]models.Operation, error)
}

// AnalysisInput holds the fields of a new analysis artifact.
type AnalysisInput struct {
	Type        string
	Title       string
	Content     string
	Tokens      int
	DataContext json.RawMessage
	IsFallback  bool
	Provider    string
}

// AnalysisFilter narrows analysis listings.
type AnalysisFilter struct {
	Type          string
	FavoritesOnly bool
	Limit         int
}

// AnalysisServicer defines the contract for persisted analysis artifacts.
type AnalysisServicer interface {
	SaveAnalysis(input AnalysisInput) (*models.Analysis, error)
	ListAnalyses(filter AnalysisFilter) ([]models.Analysis, error)
	GetAnalysis(id string) (*models.Analysis, error)
	DeleteAnalysis(id string) error
	DeleteAnalysesByType(analysisType string) (int64, error)
	ToggleFavorite(id string) (*models.Analysis, error)
}

// ForecastServicer defines the contract for forecast records.
type ForecastServicer interface {
	SaveForecast(forecast *models.Forecast) error
	ListForecasts(limit int) ([]models.Forecast, error)
}

// ChatTurnInput holds one exchange to be logged.
type ChatTurnInput struct {
	UserMessage string
	Response    string
	Context     string
	Tokens      int
	Metadata    map[string]any
}

// ChatLogger records chat turns. Log never fails the caller.
type ChatLogger interface {
	Log(turn ChatTurnInput)
	History(limit int) ([]models.ChatTurn, error)
}
