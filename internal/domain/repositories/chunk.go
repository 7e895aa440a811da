package repositories

import (
	"context"

	"healthchain/internal/domain/models"
)

// DocumentChunkRepository stores extracted record chunks with their
// embeddings and serves them back for similarity scoring, scoped by
// patient.
type DocumentChunkRepository interface {
	// InsertChunks writes a batch of chunks for one record.
	InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error

	// ListByPatient returns all chunks (embeddings included) for a
	// patient, oldest record first.
	ListByPatient(ctx context.Context, patientID string) ([]models.DocumentChunk, error)
}
