package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"bizledger/internal/ai"
	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
)

func setupAIRouter(handler *AIHandler) *gin.Engine {
	r := gin.New()
	r.POST("/ai/analyze-economy", handler.AnalyzeEconomy)
	r.GET("/ai/quarter-report", handler.QuarterReport)
	r.GET("/ai/forecast", handler.Forecast)
	r.GET("/ai/forecasts", handler.ListForecasts)
	r.POST("/ai/chat", handler.Chat)
	r.GET("/ai/chat/history", handler.ChatHistory)
	r.POST("/ai/refresh-data", handler.RefreshData)
	r.GET("/ai/health", handler.Health)
	return r
}

func newTestAIHandler(advisor *mockAdvisor) *AIHandler {
	return NewAIHandler(advisor, &mockForecastService{}, &mockChatLogger{})
}

func TestAIHandler_Generators(t *testing.T) {
	result := &ai.Result{
		Content:    "## Expense analysis",
		Tokens:     120,
		Provider:   "mistral",
		Saved:      true,
		AnalysisID: testID,
	}
	advisor := &mockAdvisor{
		economyFn:  func(context.Context) (*ai.Result, error) { return result, nil },
		quarterFn:  func(context.Context) (*ai.Result, error) { return result, nil },
		forecastFn: func(context.Context) (*ai.Result, error) { return result, nil },
	}
	r := setupAIRouter(newTestAIHandler(advisor))

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/ai/analyze-economy"},
		{http.MethodGet, "/ai/quarter-report"},
		{http.MethodGet, "/ai/forecast"},
	}
	for _, ep := range endpoints {
		t.Run(ep.path, func(t *testing.T) {
			rec := doRequest(r, ep.method, ep.path, "")
			assertStatus(t, rec, http.StatusOK)

			body := parseJSON(t, rec)
			if body["success"] != true || body["data"] != "## Expense analysis" {
				t.Errorf("unexpected body %v", body)
			}
			if body["tokens"] != float64(120) || body["provider"] != "mistral" {
				t.Errorf("unexpected tokens/provider %v", body)
			}
			if body["saved"] != true || body["saved_id"] != testID || body["is_fallback"] != false {
				t.Errorf("unexpected persistence fields %v", body)
			}
		})
	}
}

func TestAIHandler_AnalyzeEconomy_Fallback(t *testing.T) {
	advisor := &mockAdvisor{
		economyFn: func(context.Context) (*ai.Result, error) {
			return &ai.Result{Content: "local", Provider: "offline", IsFallback: true}, nil
		},
	}
	r := setupAIRouter(newTestAIHandler(advisor))

	rec := doRequest(r, http.MethodPost, "/ai/analyze-economy", "")
	assertStatus(t, rec, http.StatusOK)
	body := parseJSON(t, rec)
	if body["is_fallback"] != true || body["saved"] != false {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["saved_id"]; ok {
		t.Error("saved_id should be omitted when nothing was saved")
	}
}

func TestAIHandler_AnalyzeEconomy_Error(t *testing.T) {
	advisor := &mockAdvisor{
		economyFn: func(context.Context) (*ai.Result, error) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("query failed"))
		},
	}
	r := setupAIRouter(newTestAIHandler(advisor))

	rec := doRequest(r, http.MethodPost, "/ai/analyze-economy", "")
	assertStatus(t, rec, http.StatusInternalServerError)
	assertErrorCode(t, parseJSON(t, rec), "STORAGE_ERROR")
}

func TestAIHandler_Chat(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotMessage, gotContext string
		advisor := &mockAdvisor{
			chatFn: func(_ context.Context, message, chatContext string) (*ai.ChatReply, error) {
				gotMessage, gotContext = message, chatContext
				return &ai.ChatReply{
					Response:   "Cut software subscriptions.",
					Context:    chatContext,
					Intent:     ai.IntentEconomy,
					Provider:   "offline",
					IsFallback: true,
					HasData:    true,
				}, nil
			},
		}
		r := setupAIRouter(newTestAIHandler(advisor))

		rec := doRequest(r, http.MethodPost, "/ai/chat", `{"message":"How can I save?","context":"economy"}`)
		assertStatus(t, rec, http.StatusOK)

		if gotMessage != "How can I save?" || gotContext != "economy" {
			t.Errorf("unexpected advisor input %q / %q", gotMessage, gotContext)
		}
		body := parseJSON(t, rec)
		if body["data"] != "Cut software subscriptions." || body["context"] != "economy" || body["is_fallback"] != true {
			t.Errorf("unexpected body %v", body)
		}
		meta := body["metadata"].(map[string]interface{})
		if meta["intent"] != string(ai.IntentEconomy) || meta["has_data"] != true {
			t.Errorf("unexpected metadata %v", meta)
		}
	})

	invalid := []struct {
		name string
		body string
	}{
		{"missing_message", `{}`},
		{"bad_context", `{"message":"hi","context":"gossip"}`},
		{"malformed", `not json`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			r := setupAIRouter(newTestAIHandler(&mockAdvisor{}))

			rec := doRequest(r, http.MethodPost, "/ai/chat", tt.body)
			assertStatus(t, rec, http.StatusBadRequest)
			assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
		})
	}
}

func TestAIHandler_Lists(t *testing.T) {
	var forecastLimit, historyLimit int
	forecasts := &mockForecastService{
		listFn: func(limit int) ([]models.Forecast, error) {
			forecastLimit = limit
			return []models.Forecast{{ForecastType: models.ForecastTypeMonthly, Confidence: 0.7}}, nil
		},
	}
	chats := &mockChatLogger{
		historyFn: func(limit int) ([]models.ChatTurn, error) {
			historyLimit = limit
			return []models.ChatTurn{{UserMessage: "hi", AIResponse: "hello", ContextType: "general"}}, nil
		},
	}
	r := setupAIRouter(NewAIHandler(&mockAdvisor{}, forecasts, chats))

	rec := doRequest(r, http.MethodGet, "/ai/forecasts?limit=3", "")
	assertStatus(t, rec, http.StatusOK)
	if forecastLimit != 3 {
		t.Errorf("expected forecast limit 3, got %d", forecastLimit)
	}
	row := parseJSON(t, rec)["data"].([]interface{})[0].(map[string]interface{})
	if row["forecast_type"] != "monthly" || row["confidence"] != 0.7 {
		t.Errorf("unexpected forecast %v", row)
	}

	rec = doRequest(r, http.MethodGet, "/ai/chat/history", "")
	assertStatus(t, rec, http.StatusOK)
	if historyLimit != 0 {
		t.Errorf("expected default limit 0 to reach the service, got %d", historyLimit)
	}
	turn := parseJSON(t, rec)["data"].([]interface{})[0].(map[string]interface{})
	if turn["ai_response"] != "hello" {
		t.Errorf("unexpected turn %v", turn)
	}

	rec = doRequest(r, http.MethodGet, "/ai/chat/history?limit=0", "")
	assertStatus(t, rec, http.StatusOK)

	rec = doRequest(r, http.MethodGet, "/ai/forecasts?limit=500", "")
	assertStatus(t, rec, http.StatusBadRequest)
	assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
}

func TestAIHandler_RefreshData(t *testing.T) {
	advisor := &mockAdvisor{
		refreshFn: func(context.Context) (*ai.DataSnapshot, error) {
			return &ai.DataSnapshot{OperationsCount: 4, CategoriesCount: 6}, nil
		},
	}
	r := setupAIRouter(newTestAIHandler(advisor))

	rec := doRequest(r, http.MethodPost, "/ai/refresh-data", "")
	assertStatus(t, rec, http.StatusOK)
	body := parseJSON(t, rec)
	if body["message"] != "Data refreshed" {
		t.Errorf("unexpected message %v", body["message"])
	}
	data := body["data"].(map[string]interface{})
	if data["operations_count"] != float64(4) {
		t.Errorf("unexpected snapshot %v", data)
	}
}

func TestAIHandler_Health(t *testing.T) {
	r := setupAIRouter(newTestAIHandler(&mockAdvisor{}))

	rec := doRequest(r, http.MethodGet, "/ai/health", "")
	assertStatus(t, rec, http.StatusOK)
	body := parseJSON(t, rec)
	if body["message"] != "AI API is running" {
		t.Errorf("unexpected message %v", body["message"])
	}
	data := body["data"].(map[string]interface{})
	if data["provider"] != "offline" || data["configured"] != false {
		t.Errorf("unexpected health data %v", data)
	}
}
