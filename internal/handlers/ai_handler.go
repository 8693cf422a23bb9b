package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bizledger/internal/ai"
	apperrors "bizledger/internal/errors"
	"bizledger/internal/services"
)

// AIHandler serves the advisor endpoints.
type AIHandler struct {
	advisor   ai.AdvisorService
	forecasts services.ForecastServicer
	chats     services.ChatLogger
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(advisor ai.AdvisorService, forecasts services.ForecastServicer, chats services.ChatLogger) *AIHandler {
	return &AIHandler{advisor: advisor, forecasts: forecasts, chats: chats}
}

// AIResponse is the envelope of generator endpoints.
type AIResponse struct {
	Success    bool        `json:"success" example:"true"`
	Data       string      `json:"data"`
	Tokens     int         `json:"tokens"`
	IsFallback bool        `json:"is_fallback"`
	Provider   string      `json:"provider" example:"mistral"`
	Saved      bool        `json:"saved"`
	SavedID    string      `json:"saved_id,omitempty"`
	Metadata   interface{} `json:"metadata,omitempty"`
}

// ChatResponse is the envelope of a chat turn.
type ChatResponse struct {
	Success    bool                   `json:"success" example:"true"`
	Data       string                 `json:"data"`
	Tokens     int                    `json:"tokens"`
	IsFallback bool                   `json:"is_fallback"`
	Provider   string                 `json:"provider"`
	Context    string                 `json:"context" example:"general"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// ChatRequest represents the payload of a chat message.
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=4000" example:"Where can I save money?"`
	Context string `json:"context" binding:"omitempty,chat_context" example:"economy"`
}

type limitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func respondWithResult(c *gin.Context, result *ai.Result) {
	c.JSON(http.StatusOK, AIResponse{
		Success:    true,
		Data:       result.Content,
		Tokens:     result.Tokens,
		IsFallback: result.IsFallback,
		Provider:   result.Provider,
		Saved:      result.Saved,
		SavedID:    result.AnalysisID,
		Metadata:   result.Data,
	})
}

// AnalyzeEconomy handles cost-saving analysis of the current month.
// @Summary     Economy tips
// @Description Analyze the current month's expenses and suggest savings. Saved unless the month is empty.
// @Tags        ai
// @Produce     json
// @Success     200 {object} AIResponse "Analysis"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ai/analyze-economy [post]
func (h *AIHandler) AnalyzeEconomy(c *gin.Context) {
	result, err := h.advisor.EconomyTips(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithResult(c, result)
}

// QuarterReport handles the quarterly report.
// @Summary     Quarter report
// @Description Report on the current calendar quarter. Saved unless the quarter is empty.
// @Tags        ai
// @Produce     json
// @Success     200 {object} AIResponse "Report"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ai/quarter-report [get]
func (h *AIHandler) QuarterReport(c *gin.Context) {
	result, err := h.advisor.QuarterReport(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithResult(c, result)
}

// Forecast handles the next-month forecast.
// @Summary     Forecast
// @Description Project next month's income and expenses and store a forecast record
// @Tags        ai
// @Produce     json
// @Success     200 {object} AIResponse "Forecast"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ai/forecast [get]
func (h *AIHandler) Forecast(c *gin.Context) {
	result, err := h.advisor.Forecast(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithResult(c, result)
}

// ListForecasts handles listing stored forecast records.
// @Summary     List forecasts
// @Tags        ai
// @Produce     json
// @Param       limit query int false "Maximum records (default 10, max 100)"
// @Success     200 {object} Response{data=[]models.Forecast} "Forecasts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /ai/forecasts [get]
func (h *AIHandler) ListForecasts(c *gin.Context) {
	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	forecasts, err := h.forecasts.ListForecasts(q.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, forecasts, "")
}

// Chat handles one chat message.
// @Summary     Chat
// @Description Answer a question about the business finances. Provider failures yield a canned reply marked is_fallback.
// @Tags        ai
// @Accept      json
// @Produce     json
// @Param       request body ChatRequest true "Message"
// @Success     200 {object} ChatResponse "Reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /ai/chat [post]
func (h *AIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	reply, err := h.advisor.Chat(c.Request.Context(), req.Message, req.Context)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Success:    true,
		Data:       reply.Response,
		Tokens:     reply.Tokens,
		IsFallback: reply.IsFallback,
		Provider:   reply.Provider,
		Context:    reply.Context,
		Metadata: map[string]interface{}{
			"intent":   reply.Intent,
			"has_data": reply.HasData,
		},
	})
}

// ChatHistory handles listing logged chat turns.
// @Summary     Chat history
// @Tags        ai
// @Produce     json
// @Param       limit query int false "Maximum turns (default 50, max 100)"
// @Success     200 {object} Response{data=[]models.ChatTurn} "Turns, newest first"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /ai/chat/history [get]
func (h *AIHandler) ChatHistory(c *gin.Context) {
	var q limitQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	turns, err := h.chats.History(q.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, turns, "")
}

// RefreshData handles the data snapshot used by the dashboard panel.
// @Summary     Refresh data
// @Tags        ai
// @Produce     json
// @Success     200 {object} Response{data=ai.DataSnapshot} "Snapshot"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ai/refresh-data [post]
func (h *AIHandler) RefreshData(c *gin.Context) {
	snapshot, err := h.advisor.RefreshData(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, snapshot, "Data refreshed")
}

// Health reports the advisor status.
// @Summary     AI health
// @Tags        ai
// @Produce     json
// @Success     200 {object} Response "AI API is running"
// @Router      /ai/health [get]
func (h *AIHandler) Health(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"provider":   h.advisor.ProviderName(),
		"configured": h.advisor.ProviderConfigured(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}, "AI API is running")
}
