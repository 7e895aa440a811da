package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"healthchain/internal/domain/models"
)

const (
	// chunkSize is the target chunk length in characters
	chunkSize = 1200
	// chunkOverlap carries trailing context into the next chunk
	chunkOverlap = 200
)

// IngestResult summarizes a processed record.
type IngestResult struct {
	RecordID   string `json:"record_id"`
	ChunkCount int    `json:"chunk_count"`
}

// ProcessDocument splits extracted record text into overlapping chunks,
// embeds each, and stores them for later retrieval. Unlike retrieval,
// ingestion failures are real errors: a record that silently fails to
// index would be invisible forever.
func (s *Service) ProcessDocument(ctx context.Context, patientID, text string) (*IngestResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("document is empty")
	}

	recordID := uuid.New().String()
	pieces := splitText(text)

	vectors, err := s.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document: %w", err)
	}

	chunks := make([]models.DocumentChunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = models.DocumentChunk{
			ID:         uuid.New().String(),
			RecordID:   recordID,
			PatientID:  patientID,
			Content:    piece,
			Embedding:  vectors[i],
			ChunkIndex: i,
		}
	}

	if err := s.chunkRepo.InsertChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	s.logger.Info("document ingested",
		"patient_id", patientID, "record_id", recordID, "chunks", len(chunks))

	return &IngestResult{RecordID: recordID, ChunkCount: len(chunks)}, nil
}

// splitText breaks text into chunks of roughly chunkSize characters with
// chunkOverlap carried between consecutive chunks. Boundaries prefer
// whitespace so words are not split mid-token.
func splitText(text string) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var pieces []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			pieces = append(pieces, text[start:])
			break
		}

		// Back up to the nearest whitespace to avoid cutting a word.
		cut := end
		for cut > start && !isSpace(text[cut]) {
			cut--
		}
		if cut == start {
			cut = end
		}

		pieces = append(pieces, text[start:cut])

		// Overlap must still advance the window.
		next := cut - chunkOverlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return pieces
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
