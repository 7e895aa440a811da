package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"healthchain/internal/domain/models"
	"healthchain/internal/domain/repositories"
)

// DocumentChunkRepository implements repositories.DocumentChunkRepository.
// Embeddings are stored as JSONB arrays and scored in Go, which keeps the
// schema portable across Postgres installs without the vector extension.
type DocumentChunkRepository struct {
	cfg RepositoryConfig
}

func NewDocumentChunkRepository(cfg RepositoryConfig) repositories.DocumentChunkRepository {
	return &DocumentChunkRepository{cfg: cfg}
}

func (r *DocumentChunkRepository) InsertChunks(ctx context.Context, chunks []models.DocumentChunk) error {
	executor := GetExecutor(ctx, r.cfg.Pool)

	sql := fmt.Sprintf(`
		INSERT INTO %s (id, record_id, patient_id, content, embedding, chunk_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`, r.cfg.Tables.DocumentChunks)

	for _, chunk := range chunks {
		embedding, err := json.Marshal(chunk.Embedding)
		if err != nil {
			return fmt.Errorf("failed to marshal embedding: %w", err)
		}
		_, err = executor.Exec(ctx, sql,
			chunk.ID, chunk.RecordID, chunk.PatientID, chunk.Content, embedding, chunk.ChunkIndex)
		if err != nil {
			return fmt.Errorf("failed to insert document chunk: %w", err)
		}
	}

	return nil
}

func (r *DocumentChunkRepository) ListByPatient(ctx context.Context, patientID string) ([]models.DocumentChunk, error) {
	executor := GetExecutor(ctx, r.cfg.Pool)

	sql := fmt.Sprintf(`
		SELECT id, record_id, patient_id, content, embedding, chunk_index, created_at
		FROM %s
		WHERE patient_id = $1
		ORDER BY created_at ASC, chunk_index ASC`, r.cfg.Tables.DocumentChunks)

	rows, err := executor.Query(ctx, sql, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list document chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var chunk models.DocumentChunk
		var embedding []byte
		if err := rows.Scan(&chunk.ID, &chunk.RecordID, &chunk.PatientID,
			&chunk.Content, &embedding, &chunk.ChunkIndex, &chunk.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document chunk: %w", err)
		}
		if len(embedding) > 0 {
			if err := json.Unmarshal(embedding, &chunk.Embedding); err != nil {
				return nil, fmt.Errorf("failed to unmarshal embedding: %w", err)
			}
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document chunks: %w", err)
	}

	return chunks, nil
}
