package services

import (
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
)

const (
	defaultAnalysesLimit = 10
	maxAnalysesLimit     = 100
)

// analysisService stores generated analysis artifacts.
type analysisService struct {
	db *gorm.DB
}

// NewAnalysisService creates a new AnalysisServicer.
func NewAnalysisService(db *gorm.DB) AnalysisServicer {
	return &analysisService{db: db}
}

// SaveAnalysis validates and persists an analysis artifact.
func (s *analysisService) SaveAnalysis(input AnalysisInput) (*models.Analysis, error) {
	input.Type = strings.TrimSpace(input.Type)
	input.Title = strings.TrimSpace(input.Title)
	switch {
	case input.Type == "":
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "analysis type is required")
	case input.Title == "":
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "analysis title is required")
	case strings.TrimSpace(input.Content) == "":
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "analysis content is required")
	case input.Tokens < 0:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tokens must not be negative")
	}

	var dataContext datatypes.JSON
	if len(input.DataContext) > 0 && string(input.DataContext) != "null" {
		if !json.Valid(input.DataContext) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "data_context must be valid JSON")
		}
		dataContext = datatypes.JSON(input.DataContext)
	}

	analysis := &models.Analysis{
		Type:        input.Type,
		Title:       input.Title,
		Content:     input.Content,
		Tokens:      input.Tokens,
		DataContext: dataContext,
		IsFallback:  input.IsFallback,
		Provider:    input.Provider,
	}
	if err := s.db.Create(analysis).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return analysis, nil
}

// ListAnalyses returns analyses newest first.
func (s *analysisService) ListAnalyses(filter AnalysisFilter) ([]models.Analysis, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAnalysesLimit
	}
	if limit > maxAnalysesLimit {
		limit = maxAnalysesLimit
	}

	query := s.db.Model(&models.Analysis{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.FavoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}

	var analyses []models.Analysis
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&analyses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if analyses == nil {
		analyses = []models.Analysis{}
	}
	return analyses, nil
}

// GetAnalysis retrieves an analysis by ID.
func (s *analysisService) GetAnalysis(id string) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := s.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAnalysisNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &analysis, nil
}

// DeleteAnalysis removes one analysis.
func (s *analysisService) DeleteAnalysis(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Analysis{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAnalysisNotFound
	}
	return nil
}

// DeleteAnalysesByType removes every analysis of a type and reports how many went.
func (s *analysisService) DeleteAnalysesByType(analysisType string) (int64, error) {
	analysisType = strings.TrimSpace(analysisType)
	if analysisType == "" {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "analysis type is required")
	}

	result := s.db.Where("type = ?", analysisType).Delete(&models.Analysis{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// ToggleFavorite flips the favorite flag and returns the updated analysis.
func (s *analysisService) ToggleFavorite(id string) (*models.Analysis, error) {
	analysis, err := s.GetAnalysis(id)
	if err != nil {
		return nil, err
	}

	analysis.IsFavorite = !analysis.IsFavorite
	if err := s.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Update("is_favorite", analysis.IsFavorite).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return analysis, nil
}
