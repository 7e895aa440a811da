package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"healthchain/internal/domain"
	"healthchain/internal/domain/models"
	llmModels "healthchain/internal/domain/models/llm"
	"healthchain/internal/domain/repositories"
	llmServices "healthchain/internal/domain/services/llm"
	"healthchain/internal/service/conversation"
	"healthchain/internal/service/finalize"
	"healthchain/internal/service/llm/tools"
	"healthchain/internal/service/pharmacy"
)

type stubPatientRepo struct{}

func (stubPatientRepo) GetProfile(ctx context.Context, patientID string) (*models.Patient, error) {
	return &models.Patient{ID: patientID, FullName: "Asha Kulkarni"}, nil
}

func (stubPatientRepo) GetHealthSummary(ctx context.Context, patientID string) (*models.HealthSummary, error) {
	return &models.HealthSummary{PatientID: patientID}, nil
}

func (stubPatientRepo) HasPrescription(ctx context.Context, patientID, medicineID string) (bool, error) {
	return false, nil
}

type stubMedicineRepo struct{}

func (stubMedicineRepo) SearchByName(ctx context.Context, query string, limit int) ([]models.Medicine, error) {
	return nil, nil
}

func (stubMedicineRepo) GetByID(ctx context.Context, medicineID string) (*models.Medicine, error) {
	return nil, domain.NewNotFoundError("medicine", medicineID)
}

func (stubMedicineRepo) DecrementStock(ctx context.Context, medicineID string, qty int) error {
	return nil
}

type stubOrderRepo struct{ orders []models.Order }

func (s *stubOrderRepo) CreateDraft(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrderRepo) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return nil, domain.NewNotFoundError("order", orderID)
}

func (s *stubOrderRepo) ListByPatient(ctx context.Context, patientID string, limit int) ([]models.Order, error) {
	return s.orders, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	return nil
}

type stubRefillRepo struct{ alerts []models.RefillAlert }

func (s *stubRefillRepo) Create(ctx context.Context, alert *models.RefillAlert) error { return nil }

func (s *stubRefillRepo) ListByPatient(ctx context.Context, patientID string) ([]models.RefillAlert, error) {
	return s.alerts, nil
}

type stubNotificationRepo struct{}

func (stubNotificationRepo) Insert(ctx context.Context, notification *models.Notification) error {
	return nil
}

type passTx struct{}

func (passTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func newChatFixture(t *testing.T, provider llmServices.Provider, orders []models.Order, alerts []models.RefillAlert) *ChatService {
	t.Helper()
	logger := slog.Default()

	svc := pharmacy.NewService(
		stubPatientRepo{}, stubMedicineRepo{},
		&stubOrderRepo{orders: orders}, &stubRefillRepo{alerts: alerts},
		stubNotificationRepo{}, passTx{}, logger,
	)

	controller := NewController(provider, tools.BuildPharmacyRegistry(svc), "claude-test", logger)

	finalizer, err := finalize.NewFinalizer(nil, logger)
	if err != nil {
		t.Fatalf("finalizer: %v", err)
	}

	return NewChatService(controller, svc, conversation.NewStoreWithCapacity(8), finalizer, logger)
}

// bareToolResponse has no text blocks, only the tool request.
func bareToolResponse(id, name string, input map[string]any) *llmServices.GenerateResponse {
	return &llmServices.GenerateResponse{
		Content:    []*llmModels.ContentBlock{llmModels.NewToolUseBlock(id, name, input)},
		StopReason: "tool_use",
	}
}

func TestChatService_Validation(t *testing.T) {
	svc := newChatFixture(t, &scriptedProvider{responses: []*llmServices.GenerateResponse{textResponse("hi")}}, nil, nil)

	_, err := svc.Chat(context.Background(), ChatRequest{Message: "refill please"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for missing patient_id, got %v", err)
	}
}

func TestChatService_ForcedStopStillSucceeds(t *testing.T) {
	// The model insists on a tool every turn with no text at all; after
	// the iteration bound the patient still gets a usable reply.
	provider := &scriptedProvider{responses: []*llmServices.GenerateResponse{
		bareToolResponse("loop", "get_medicines", map[string]any{"query": "paracetamol"}),
	}}
	svc := newChatFixture(t, provider, nil, nil)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message:   "I need something for fever",
		PatientID: "p7",
		Language:  "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Error("forced stop must still report success")
	}
	if !strings.Contains(resp.Response, "couldn't process that request") {
		t.Errorf("expected empty-reply fallback, got %q", resp.Response)
	}
}

func TestChatService_QuotaFallback(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("429 resource exhausted")}
	svc := newChatFixture(t, provider, nil, nil)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message:   "aushadh sampat aali aahe",
		PatientID: "p7",
		Language:  "mr",
	})
	if err != nil {
		t.Fatalf("provider failure must not surface as an error: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
	if !strings.Contains(resp.Response, "खूप विनंत्या") {
		t.Errorf("expected Marathi quota fallback, got %q", resp.Response)
	}
	if resp.Error == "" {
		t.Error("expected underlying error to be surfaced")
	}
}

func TestChatService_PromptCarriesPatientContext(t *testing.T) {
	provider := &scriptedProvider{responses: []*llmServices.GenerateResponse{
		textResponse("your metformin refill is due soon"),
	}}
	orders := []models.Order{{ID: "ord-1", PatientID: "p7", Status: "confirmed"}}
	alerts := []models.RefillAlert{{ID: "al-1", PatientID: "p7", MedicineName: "Metformin"}}
	svc := newChatFixture(t, provider, orders, alerts)

	resp, err := svc.Chat(context.Background(), ChatRequest{
		Message:   "any refills due?",
		PatientID: "p7",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success {
		t.Fatalf("unexpected response: %+v", resp)
	}

	system := provider.requests[0].System
	for _, want := range []string{
		"PATIENT PROFILE", "Asha Kulkarni",
		"ORDER HISTORY", "ord-1",
		"PROACTIVE REFILL ALERTS", "Metformin",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestChatService_EmptyContextBlocksOmitted(t *testing.T) {
	provider := &scriptedProvider{responses: []*llmServices.GenerateResponse{
		textResponse("hello"),
	}}
	svc := newChatFixture(t, provider, nil, nil)

	if _, err := svc.Chat(context.Background(), ChatRequest{
		Message:   "hello",
		PatientID: "p7",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	system := provider.requests[0].System
	if strings.Contains(system, "ORDER HISTORY") || strings.Contains(system, "PROACTIVE REFILL ALERTS") {
		t.Error("empty context blocks must be omitted from the prompt")
	}
}
