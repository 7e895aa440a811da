package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"healthchain/internal/domain/models"
	llmModels "healthchain/internal/domain/models/llm"
	llmServices "healthchain/internal/domain/services/llm"
	"healthchain/internal/service/chat"
	"healthchain/internal/service/conversation"
	"healthchain/internal/service/finalize"
	"healthchain/internal/service/rag"
)

// deadlineProvider records whether the request context carried a
// deadline when the model was called.
type deadlineProvider struct {
	sawDeadline bool
	text        string
}

func (p *deadlineProvider) GenerateResponse(ctx context.Context, req *llmServices.GenerateRequest) (*llmServices.GenerateResponse, error) {
	_, p.sawDeadline = ctx.Deadline()
	return &llmServices.GenerateResponse{
		Content:    []*llmModels.ContentBlock{llmModels.NewTextBlock(p.text)},
		StopReason: "end_turn",
	}, nil
}

func (p *deadlineProvider) Name() string { return "test" }

type unitEmbedder struct{}

func (unitEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (unitEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

type emptyChunkRepo struct{}

func (emptyChunkRepo) InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	return nil
}

func (emptyChunkRepo) ListByPatient(ctx context.Context, patientID string) ([]models.DocumentChunk, error) {
	return nil, nil
}

func newChatTestHandler(t *testing.T, provider llmServices.Provider) *ChatHandler {
	t.Helper()
	logger := slog.Default()

	finalizer, err := finalize.NewFinalizer(nil, logger)
	if err != nil {
		t.Fatalf("finalizer: %v", err)
	}

	svc := chat.NewService(
		provider,
		rag.NewService(emptyChunkRepo{}, unitEmbedder{}, logger),
		conversation.NewStoreWithCapacity(4),
		finalizer,
		"claude-test",
		logger,
	)
	return NewChatHandler(svc, logger)
}

func TestChatHandler_BoundsTurnWithDeadline(t *testing.T) {
	provider := &deadlineProvider{text: "rest and drink fluids"}
	h := newChatTestHandler(t, provider)

	r := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"message": "I have a cough", "user_id": "p1"}`))
	w := httptest.NewRecorder()

	h.Chat(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !provider.sawDeadline {
		t.Error("model call ran without a request deadline")
	}

	var resp chat.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !strings.Contains(resp.Response, "fluids") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestChatHandler_RejectsInvalidBody(t *testing.T) {
	h := newChatTestHandler(t, &deadlineProvider{text: "hi"})

	r := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": ""}`))
	w := httptest.NewRecorder()

	h.Chat(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
