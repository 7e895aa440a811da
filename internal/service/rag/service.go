package rag

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"healthchain/internal/config"
	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
	"healthchain/internal/service/embedding"
)

// Service retrieves patient record context for chat augmentation.
// Retrieval is strictly best-effort: any failure degrades to "no
// context" rather than failing the chat request.
type Service struct {
	chunkRepo repositories.DocumentChunkRepository
	embedder  embedding.Client
	logger    *slog.Logger
}

func NewService(
	chunkRepo repositories.DocumentChunkRepository,
	embedder embedding.Client,
	logger *slog.Logger,
) *Service {
	return &Service{
		chunkRepo: chunkRepo,
		embedder:  embedder,
		logger:    logger,
	}
}

// SearchRecords returns the most relevant record snippets for the query,
// joined into a single context string. Returns "" when nothing clears
// the similarity threshold or when retrieval fails for any reason.
func (s *Service) SearchRecords(ctx context.Context, patientID, query string) string {
	scored, err := s.Retrieve(ctx, patientID, query)
	if err != nil {
		s.logger.Warn("record retrieval failed, continuing without context",
			"patient_id", patientID, "error", err)
		return ""
	}
	if len(scored) == 0 {
		return ""
	}

	parts := make([]string, len(scored))
	for i, chunk := range scored {
		parts[i] = chunk.Content
	}
	return strings.Join(parts, "\n\n")
}

// Retrieve embeds the query and scores it against all of the patient's
// stored chunks, returning those above the similarity threshold, best
// first, capped at the retrieval limit.
func (s *Service) Retrieve(ctx context.Context, patientID, query string) ([]models.ScoredChunk, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunkRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var scored []models.ScoredChunk
	for _, chunk := range chunks {
		sim := cosineSimilarity(queryVec, chunk.Embedding)
		if sim >= config.RetrievalThreshold {
			scored = append(scored, models.ScoredChunk{
				Content:    chunk.Content,
				Similarity: sim,
			})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > config.RetrievalLimit {
		scored = scored[:config.RetrievalLimit]
	}

	return scored, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 for mismatched or zero-length vectors.
func cosineSimilarity(a []float32, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	af := make([]float64, len(a))
	bf := make([]float64, len(b))
	for i := range a {
		af[i] = float64(a[i])
		bf[i] = float64(b[i])
	}

	normA := floats.Norm(af, 2)
	normB := floats.Norm(bf, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(af, bf) / (normA * normB)
}
