package handler

import (
	"context"
	"log/slog"
	"net/http"

	"healthchain/internal/config"
	"healthchain/internal/domain/models"
	"healthchain/internal/httputil"
	"healthchain/internal/service/llm/agent"
	"healthchain/internal/service/pharmacy"
)

// PharmacyHandler handles the pharmacy agent and pharmacy data endpoints
type PharmacyHandler struct {
	agentService    *agent.ChatService
	pharmacyService *pharmacy.Service
	logger          *slog.Logger
}

func NewPharmacyHandler(
	agentService *agent.ChatService,
	pharmacyService *pharmacy.Service,
	logger *slog.Logger,
) *PharmacyHandler {
	return &PharmacyHandler{
		agentService:    agentService,
		pharmacyService: pharmacyService,
		logger:          logger,
	}
}

// Chat runs one pharmacy agent turn
// POST /pharmacy/chat
func (h *PharmacyHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req agent.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The tool loop can make several model calls; bound them all under
	// one deadline.
	ctx, cancel := context.WithTimeout(r.Context(), config.RequestTimeout)
	defer cancel()

	resp, err := h.agentService.Chat(ctx, req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// RefillAlerts lists pending refill alerts for a patient
// GET /pharmacy/refill-alerts/{patient_id}
func (h *PharmacyHandler) RefillAlerts(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("patient_id")
	if patientID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "patient_id is required")
		return
	}

	alerts, err := h.pharmacyService.GetRefillAlerts(r.Context(), patientID)
	if err != nil {
		handleError(w, err)
		return
	}

	if alerts == nil {
		alerts = []models.RefillAlert{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
