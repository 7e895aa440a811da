package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"healthchain/internal/config"
	"healthchain/internal/domain"
	llmModels "healthchain/internal/domain/models/llm"
	llmServices "healthchain/internal/domain/services/llm"
	"healthchain/internal/service/conversation"
	"healthchain/internal/service/finalize"
	"healthchain/internal/service/pharmacy"
)

// ChatRequest is one pharmacy-agent turn from the patient.
type ChatRequest struct {
	Message   string `json:"message"`
	PatientID string `json:"patient_id"`
	Language  string `json:"language,omitempty"`
	UseVoice  bool   `json:"use_voice,omitempty"`
}

// Validate implements input validation for agent chat requests.
func (r ChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, validation.Length(1, config.MaxChatMessageLength)),
		validation.Field(&r.PatientID, validation.Required),
		validation.Field(&r.Language, validation.In("", "en", "hi", "mr")),
	)
}

// ChatResponse always carries a speakable reply, fallback or not.
type ChatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	AudioData string `json:"audio_data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ChatService runs the pharmacy agent for a patient session: patient
// context assembly, the bounded tool loop, history bookkeeping, and
// fallback/voice finalization.
type ChatService struct {
	controller *Controller
	pharmacy   *pharmacy.Service
	history    *conversation.Store
	finalizer  *finalize.Finalizer
	logger     *slog.Logger
}

func NewChatService(
	controller *Controller,
	pharmacyService *pharmacy.Service,
	history *conversation.Store,
	finalizer *finalize.Finalizer,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		controller: controller,
		pharmacy:   pharmacyService,
		history:    history,
		finalizer:  finalizer,
		logger:     logger,
	}
}

// Chat handles one agent turn. Validation failures are errors; model and
// tool trouble downstream degrades to a language-appropriate fallback in
// a success=false response.
func (s *ChatService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	language := finalize.DetectLanguage(req.Message, req.Language)
	sessionID := "pharmacy:" + req.PatientID
	history := s.history.Recent(sessionID, config.HistoryWindow)

	system := s.buildSystemPrompt(ctx, req, history)

	seed := []llmServices.Message{
		{
			Role:    "user",
			Content: []*llmModels.ContentBlock{llmModels.NewTextBlock(req.Message)},
		},
	}

	result, err := s.controller.Run(ctx, system, seed)
	if err != nil {
		s.logger.Error("pharmacy agent run failed", "patient_id", req.PatientID, "error", err)
		kind := finalize.KindGeneric
		if finalize.IsQuotaError(err) {
			kind = finalize.KindQuota
		}
		return &ChatResponse{
			Success:  false,
			Response: s.finalizer.FallbackText(language, kind),
			Error:    err.Error(),
		}, nil
	}

	text := result.Text
	if text == "" {
		// Forced stop with nothing to show, or a model reply with no
		// text blocks. Either way the patient gets the retry message.
		text = s.finalizer.FallbackText(language, finalize.KindEmpty)
	}

	s.history.Append(sessionID, conversation.Turn{Role: "user", Content: req.Message})
	s.history.Append(sessionID, conversation.Turn{Role: "assistant", Content: text})

	s.logger.Info("pharmacy agent turn complete",
		"patient_id", req.PatientID,
		"outcome", result.Outcome,
		"iterations", result.Iterations,
		"input_tokens", result.InputTokens,
		"output_tokens", result.OutputTokens)

	out := &ChatResponse{Success: true, Response: text}
	if req.UseVoice {
		out.AudioData = s.finalizer.Synthesize(ctx, text, language)
	}
	return out, nil
}

func (s *ChatService) buildSystemPrompt(ctx context.Context, req ChatRequest, history []conversation.Turn) string {
	cfg := PromptConfig{
		Persona:        PharmacyPersona,
		SafetyPolicies: DefaultSafetyPolicies,
		LanguagePolicy: fmt.Sprintf(DefaultLanguagePolicy, req.Language),
		ContextBlocks: []ContextBlock{
			{Label: "PATIENT ID", Content: req.PatientID},
			{Label: "PREVIOUS CONVERSATION", Content: formatTurns(history)},
		},
	}

	// Patient context is best-effort, block by block: whatever can be
	// fetched goes into the prompt, the rest is logged and skipped.
	patient, summary, err := s.pharmacy.GetPatientProfile(ctx, req.PatientID)
	if err != nil {
		s.logger.Warn("patient profile unavailable", "patient_id", req.PatientID, "error", err)
	} else if profile, err := json.Marshal(map[string]any{
		"profile":        patient,
		"health_summary": summary,
	}); err == nil {
		cfg.ContextBlocks = append(cfg.ContextBlocks, ContextBlock{
			Label:   "PATIENT PROFILE",
			Content: string(profile),
		})
	}

	orders, err := s.pharmacy.GetPatientOrders(ctx, req.PatientID, 0)
	if err != nil {
		s.logger.Warn("order history unavailable", "patient_id", req.PatientID, "error", err)
	} else if len(orders) > 0 {
		if history, err := json.Marshal(orders); err == nil {
			cfg.ContextBlocks = append(cfg.ContextBlocks, ContextBlock{
				Label:   "ORDER HISTORY",
				Content: string(history),
			})
		}
	}

	alerts, err := s.pharmacy.GetRefillAlerts(ctx, req.PatientID)
	if err != nil {
		s.logger.Warn("refill alerts unavailable", "patient_id", req.PatientID, "error", err)
	} else if len(alerts) > 0 {
		if pending, err := json.Marshal(alerts); err == nil {
			cfg.ContextBlocks = append(cfg.ContextBlocks, ContextBlock{
				Label:   "PROACTIVE REFILL ALERTS",
				Content: string(pending),
			})
		}
	}

	return cfg.Build()
}

func formatTurns(history []conversation.Turn) string {
	out := ""
	for _, turn := range history {
		role := "User"
		if turn.Role == "assistant" {
			role = "Assistant"
		}
		out += fmt.Sprintf("%s: %s\n", role, turn.Content)
	}
	return out
}
