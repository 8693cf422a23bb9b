package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/services"
)

// AnalysisHandler manages stored analysis artifacts.
type AnalysisHandler struct {
	analysisService services.AnalysisServicer
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService services.AnalysisServicer) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// CreateAnalysisRequest represents a directly inserted analysis.
type CreateAnalysisRequest struct {
	Type        string          `json:"type" binding:"required,max=50" example:"custom"`
	Title       string          `json:"title" binding:"required,max=255" example:"Manual note"`
	Content     string          `json:"content" binding:"required"`
	Tokens      int             `json:"tokens" binding:"min=0"`
	DataContext json.RawMessage `json:"data_context" swaggertype:"object"`
}

type analysisListQuery struct {
	Type  string `form:"type" binding:"omitempty,max=50"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// CreateAnalysis handles direct insertion of an analysis.
// @Summary     Create an analysis
// @Description Store an analysis artifact directly. Also served at /ai/test-add-analysis.
// @Tags        analyses
// @Accept      json
// @Produce     json
// @Param       request body CreateAnalysisRequest true "Analysis"
// @Success     201 {object} Response{data=models.Analysis} "Analysis created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ai/analyses [post]
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	var req CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	analysis, err := h.analysisService.SaveAnalysis(services.AnalysisInput{
		Type:        req.Type,
		Title:       req.Title,
		Content:     req.Content,
		Tokens:      req.Tokens,
		DataContext: req.DataContext,
		Provider:    "manual",
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, analysis, "Analysis created")
}

// ListAnalyses handles listing stored analyses.
// @Summary     List analyses
// @Tags        analyses
// @Produce     json
// @Param       type  query string false "Filter by type"
// @Param       limit query int    false "Maximum records (default 10, max 100)"
// @Success     200 {object} Response{data=[]models.Analysis} "Analyses, newest first"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /ai/analyses [get]
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	var q analysisListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	analyses, err := h.analysisService.ListAnalyses(services.AnalysisFilter{Type: q.Type, Limit: q.Limit})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, analyses, "")
}

// ListFavorites handles listing favorite analyses.
// @Summary     List favorite analyses
// @Tags        analyses
// @Produce     json
// @Param       limit query int false "Maximum records (default 10, max 100)"
// @Success     200 {object} Response{data=[]models.Analysis} "Favorites, newest first"
// @Router      /ai/analyses/favorites [get]
func (h *AnalysisHandler) ListFavorites(c *gin.Context) {
	var q analysisListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	analyses, err := h.analysisService.ListAnalyses(services.AnalysisFilter{Type: q.Type, FavoritesOnly: true, Limit: q.Limit})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, analyses, "")
}

// GetAnalysis handles retrieving one analysis.
// @Summary     Get analysis by ID
// @Tags        analyses
// @Produce     json
// @Param       id path string true "Analysis ID"
// @Success     200 {object} Response{data=models.Analysis} "Analysis"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Analysis not found"
// @Router      /ai/analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	analysis, err := h.analysisService.GetAnalysis(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, analysis, "")
}

// DeleteAnalysis handles deleting one analysis.
// @Summary     Delete an analysis
// @Tags        analyses
// @Produce     json
// @Param       id path string true "Analysis ID"
// @Success     200 {object} Response "Analysis deleted"
// @Failure     404 {object} ErrorResponse "Analysis not found"
// @Router      /ai/analyses/{id} [delete]
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.analysisService.DeleteAnalysis(id); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, nil, "Analysis deleted")
}

// DeleteAnalysesByType handles bulk deletion by type.
// @Summary     Delete analyses by type
// @Tags        analyses
// @Produce     json
// @Param       type path string true "Analysis type"
// @Success     200 {object} Response "Number of deleted analyses"
// @Failure     400 {object} ErrorResponse "Invalid type"
// @Router      /ai/analyses/type/{type} [delete]
func (h *AnalysisHandler) DeleteAnalysesByType(c *gin.Context) {
	deleted, err := h.analysisService.DeleteAnalysesByType(c.Param("type"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": deleted}, "Analyses deleted")
}

// ToggleFavorite handles flipping the favorite flag.
// @Summary     Toggle favorite
// @Tags        analyses
// @Produce     json
// @Param       id path string true "Analysis ID"
// @Success     200 {object} Response{data=models.Analysis} "Updated analysis"
// @Failure     404 {object} ErrorResponse "Analysis not found"
// @Router      /ai/analyses/{id}/favorite [post]
func (h *AnalysisHandler) ToggleFavorite(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	analysis, err := h.analysisService.ToggleFavorite(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, analysis, "")
}
