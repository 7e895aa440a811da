package handler

import (
	"context"
	"log/slog"
	"net/http"

	"healthchain/internal/config"
	"healthchain/internal/httputil"
	"healthchain/internal/service/insights"
)

// InsightsHandler handles the health analysis endpoint
type InsightsHandler struct {
	insightsService *insights.Service
	logger          *slog.Logger
}

func NewInsightsHandler(insightsService *insights.Service, logger *slog.Logger) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
		logger:          logger,
	}
}

// AnalyzeHealth produces a structured trend analysis from the patient's
// extracted records
// GET /analyze_health/{patient_id}
func (h *InsightsHandler) AnalyzeHealth(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("patient_id")
	if patientID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "patient_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.RequestTimeout)
	defer cancel()

	analysis, err := h.insightsService.AnalyzeHealth(ctx, patientID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    analysis,
	})
}
