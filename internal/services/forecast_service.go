package services

import (
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
)

// forecastService stores forecast records.
type forecastService struct {
	db *gorm.DB
}

// NewForecastService creates a new ForecastServicer.
func NewForecastService(db *gorm.DB) ForecastServicer {
	return &forecastService{db: db}
}

// SaveForecast persists a forecast record.
func (s *forecastService) SaveForecast(forecast *models.Forecast) error {
	if forecast.Confidence < 0 || forecast.Confidence > 1 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "confidence must be between 0 and 1")
	}
	if forecast.ForecastDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "forecast date is required")
	}
	if forecast.ForecastType == "" {
		forecast.ForecastType = models.ForecastTypeMonthly
	}

	if err := s.db.Create(forecast).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListForecasts returns the most recent forecasts first.
func (s *forecastService) ListForecasts(limit int) ([]models.Forecast, error) {
	if limit <= 0 || limit > maxAnalysesLimit {
		limit = defaultAnalysesLimit
	}

	var forecasts []models.Forecast
	if err := s.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&forecasts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if forecasts == nil {
		forecasts = []models.Forecast{}
	}
	return forecasts, nil
}
