package rag

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"healthchain/internal/domain/models"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

type fakeChunkRepo struct {
	chunks   []models.DocumentChunk
	listErr  error
	inserted []models.DocumentChunk
}

func (f *fakeChunkRepo) InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	f.inserted = append(f.inserted, chunks...)
	return nil
}

func (f *fakeChunkRepo) ListByPatient(ctx context.Context, patientID string) ([]models.DocumentChunk, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.chunks, nil
}

func chunk(content string, embedding []float32) models.DocumentChunk {
	return models.DocumentChunk{Content: content, Embedding: embedding}
}

func TestSearchRecords_DegradesOnEmbedderFailure(t *testing.T) {
	svc := NewService(&fakeChunkRepo{}, &fakeEmbedder{err: errors.New("embed down")}, slog.Default())

	if got := svc.SearchRecords(context.Background(), "p1", "query"); got != "" {
		t.Errorf("expected empty context on failure, got %q", got)
	}
}

func TestSearchRecords_DegradesOnRepoFailure(t *testing.T) {
	repo := &fakeChunkRepo{listErr: errors.New("db down")}
	svc := NewService(repo, &fakeEmbedder{vector: []float32{1, 0}}, slog.Default())

	if got := svc.SearchRecords(context.Background(), "p1", "query"); got != "" {
		t.Errorf("expected empty context on failure, got %q", got)
	}
}

func TestRetrieve_ThresholdAndOrdering(t *testing.T) {
	repo := &fakeChunkRepo{chunks: []models.DocumentChunk{
		chunk("orthogonal", []float32{0, 1}),       // similarity 0
		chunk("exact match", []float32{1, 0}),      // similarity 1
		chunk("close", []float32{0.9, 0.4358899}),  // ~0.9
		chunk("borderline", []float32{0.5, 0.866}), // ~0.5
	}}
	svc := NewService(repo, &fakeEmbedder{vector: []float32{1, 0}}, slog.Default())

	scored, err := svc.Retrieve(context.Background(), "p1", "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scored) != 3 {
		t.Fatalf("expected 3 chunks above threshold, got %d", len(scored))
	}
	if scored[0].Content != "exact match" {
		t.Errorf("expected best match first, got %q", scored[0].Content)
	}
	for _, s := range scored {
		if s.Content == "orthogonal" {
			t.Error("orthogonal chunk should not clear the threshold")
		}
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].Similarity > scored[i-1].Similarity {
			t.Error("results not sorted by similarity")
		}
	}
}

func TestRetrieve_CapsResults(t *testing.T) {
	repo := &fakeChunkRepo{}
	for i := 0; i < 8; i++ {
		repo.chunks = append(repo.chunks, chunk("c", []float32{1, 0}))
	}
	svc := NewService(repo, &fakeEmbedder{vector: []float32{1, 0}}, slog.Default())

	scored, err := svc.Retrieve(context.Background(), "p1", "query")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scored) != 5 {
		t.Errorf("expected retrieval cap of 5, got %d", len(scored))
	}
}

func TestCosineSimilarity_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"empty", nil, nil, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessDocument(t *testing.T) {
	repo := &fakeChunkRepo{}
	svc := NewService(repo, &fakeEmbedder{vector: []float32{1, 0}}, slog.Default())

	result, err := svc.ProcessDocument(context.Background(), "p1", "some extracted record text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ChunkCount != 1 || len(repo.inserted) != 1 {
		t.Errorf("expected 1 chunk, got result=%d inserted=%d", result.ChunkCount, len(repo.inserted))
	}
	if repo.inserted[0].PatientID != "p1" {
		t.Errorf("chunk not scoped to patient: %+v", repo.inserted[0])
	}
	if repo.inserted[0].RecordID == "" {
		t.Error("chunk missing record ID")
	}
}

func TestProcessDocument_EmptyText(t *testing.T) {
	svc := NewService(&fakeChunkRepo{}, &fakeEmbedder{vector: []float32{1}}, slog.Default())
	if _, err := svc.ProcessDocument(context.Background(), "p1", "   "); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestSplitText_LongDocument(t *testing.T) {
	text := ""
	for i := 0; i < 300; i++ {
		text += "record line with some clinical detail "
	}

	pieces := splitText(text)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(pieces))
	}
	for i, piece := range pieces {
		if len(piece) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
		if len(piece) > chunkSize+1 {
			t.Errorf("chunk %d exceeds target size: %d", i, len(piece))
		}
	}
}
