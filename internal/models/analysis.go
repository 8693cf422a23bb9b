package models

import (
	"gorm.io/datatypes"
)

// Analysis types produced by the advisor. Ad-hoc types are allowed for
// directly inserted artifacts.
const (
	AnalysisTypeEconomyTips   = "economy_tips"
	AnalysisTypeQuarterReport = "quarter_report"
	AnalysisTypeForecast      = "forecast"
)

// Analysis is a persisted piece of generated commentary.
type Analysis struct {
	Base
	Type        string         `gorm:"type:varchar(50);not null;index" json:"type"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Tokens      int            `gorm:"not null;default:0" json:"tokens"`
	DataContext datatypes.JSON `json:"data_context,omitempty"`
	IsFavorite  bool           `gorm:"not null;default:false" json:"is_favorite"`
	IsFallback  bool           `gorm:"not null;default:false" json:"is_fallback"`
	Provider    string         `gorm:"type:varchar(30);not null;default:''" json:"provider"`
}

// TableName overrides the default table name.
func (Analysis) TableName() string {
	return "ai_analyses"
}
