package services

import (
	"encoding/json"
	"testing"

	"bizledger/internal/models"
	"bizledger/internal/testutil"
)

func TestSaveAnalysis(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalysisService(db)

		analysis, err := svc.SaveAnalysis(AnalysisInput{
			Type:        models.AnalysisTypeEconomyTips,
			Title:       " Tips ",
			Content:     "cut costs",
			Tokens:      42,
			DataContext: json.RawMessage(`{"period":"2024-05"}`),
			IsFallback:  true,
			Provider:    "offline",
		})
		testutil.AssertNoError(t, err)

		stored, err := svc.GetAnalysis(analysis.ID)
		testutil.AssertNoError(t, err)
		if stored.Title != "Tips" || stored.Tokens != 42 || !stored.IsFallback || stored.Provider != "offline" {
			t.Errorf("unexpected stored analysis %+v", stored)
		}
		if stored.IsFavorite {
			t.Error("new analyses must not be favorites")
		}

		var ctx map[string]string
		if err := json.Unmarshal(stored.DataContext, &ctx); err != nil || ctx["period"] != "2024-05" {
			t.Errorf("data context not preserved: %s", stored.DataContext)
		}
	})

	tests := []struct {
		name  string
		input AnalysisInput
	}{
		{"missing_type", AnalysisInput{Title: "t", Content: "c"}},
		{"missing_title", AnalysisInput{Type: "custom", Content: "c"}},
		{"blank_content", AnalysisInput{Type: "custom", Title: "t", Content: "  "}},
		{"negative_tokens", AnalysisInput{Type: "custom", Title: "t", Content: "c", Tokens: -1}},
		{"invalid_context", AnalysisInput{Type: "custom", Title: "t", Content: "c", DataContext: json.RawMessage(`{broken`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)

			_, err := NewAnalysisService(db).SaveAnalysis(tt.input)
			testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		})
	}
}

func TestListAnalyses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAnalysisService(db)

	first := testutil.CreateTestAnalysis(t, db, models.AnalysisTypeEconomyTips)
	second := testutil.CreateTestAnalysis(t, db, models.AnalysisTypeQuarterReport)
	third := testutil.CreateTestAnalysis(t, db, models.AnalysisTypeEconomyTips)

	t.Run("newest_first", func(t *testing.T) {
		list, err := svc.ListAnalyses(AnalysisFilter{})
		testutil.AssertNoError(t, err)
		if len(list) != 3 {
			t.Fatalf("expected 3 analyses, got %d", len(list))
		}
		if list[0].ID != third.ID || list[2].ID != first.ID {
			t.Errorf("unexpected order: %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
		}
	})

	t.Run("by_type", func(t *testing.T) {
		list, err := svc.ListAnalyses(AnalysisFilter{Type: models.AnalysisTypeQuarterReport})
		testutil.AssertNoError(t, err)
		if len(list) != 1 || list[0].ID != second.ID {
			t.Errorf("expected only the quarter report, got %+v", list)
		}
	})

	t.Run("limit", func(t *testing.T) {
		list, err := svc.ListAnalyses(AnalysisFilter{Limit: 2})
		testutil.AssertNoError(t, err)
		if len(list) != 2 {
			t.Errorf("expected 2 analyses, got %d", len(list))
		}
	})

	t.Run("favorites_only", func(t *testing.T) {
		_, err := svc.ToggleFavorite(first.ID)
		testutil.AssertNoError(t, err)

		list, err := svc.ListAnalyses(AnalysisFilter{FavoritesOnly: true})
		testutil.AssertNoError(t, err)
		if len(list) != 1 || list[0].ID != first.ID {
			t.Errorf("expected only the favorite, got %+v", list)
		}
	})
}

func TestToggleFavorite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAnalysisService(db)
	analysis := testutil.CreateTestAnalysis(t, db, models.AnalysisTypeForecast)

	toggled, err := svc.ToggleFavorite(analysis.ID)
	testutil.AssertNoError(t, err)
	if !toggled.IsFavorite {
		t.Fatal("expected favorite after first toggle")
	}

	toggled, err = svc.ToggleFavorite(analysis.ID)
	testutil.AssertNoError(t, err)
	if toggled.IsFavorite {
		t.Error("expected unfavorite after second toggle")
	}

	_, err = svc.ToggleFavorite("0190a5f2-8b3c-7d4e-9f00-123456789abc")
	testutil.AssertAppError(t, err, "ANALYSIS_NOT_FOUND")
}

func TestDeleteAnalysis(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAnalysisService(db)
	analysis := testutil.CreateTestAnalysis(t, db, models.AnalysisTypeForecast)

	testutil.AssertNoError(t, svc.DeleteAnalysis(analysis.ID))

	err := svc.DeleteAnalysis(analysis.ID)
	testutil.AssertAppError(t, err, "ANALYSIS_NOT_FOUND")

	_, err = svc.GetAnalysis(analysis.ID)
	testutil.AssertAppError(t, err, "ANALYSIS_NOT_FOUND")
}

func TestDeleteAnalysesByType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAnalysisService(db)

	testutil.CreateTestAnalysis(t, db, models.AnalysisTypeEconomyTips)
	testutil.CreateTestAnalysis(t, db, models.AnalysisTypeEconomyTips)
	kept := testutil.CreateTestAnalysis(t, db, models.AnalysisTypeForecast)

	deleted, err := svc.DeleteAnalysesByType(models.AnalysisTypeEconomyTips)
	testutil.AssertNoError(t, err)
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	deleted, err = svc.DeleteAnalysesByType(models.AnalysisTypeEconomyTips)
	testutil.AssertNoError(t, err)
	if deleted != 0 {
		t.Errorf("expected 0 deleted on second call, got %d", deleted)
	}

	_, err = svc.GetAnalysis(kept.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.DeleteAnalysesByType(" ")
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
}
