package models

import (
	"github.com/shopspring/decimal"
)

// ForecastTypeMonthly is the only forecast horizon produced today.
const ForecastTypeMonthly = "monthly"

// Forecast is a projection for a future period. Records are read-only once written.
type Forecast struct {
	Base
	AnalysisID       *string         `gorm:"type:uuid;index" json:"analysis_id,omitempty"`
	ForecastDate     Date            `gorm:"not null" json:"forecast_date"`
	ForecastType     string          `gorm:"type:varchar(20);not null;default:monthly" json:"forecast_type"`
	PredictedIncome  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"predicted_income"`
	PredictedExpense decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"predicted_expense"`
	Confidence       float64         `gorm:"not null" json:"confidence"`
	Assumptions      string          `gorm:"type:text" json:"assumptions"`
	Recommendations  string          `gorm:"type:text" json:"recommendations"`
}

// TableName overrides the default table name.
func (Forecast) TableName() string {
	return "ai_forecasts"
}
