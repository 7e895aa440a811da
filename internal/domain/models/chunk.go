package models

import "time"

// DocumentChunk is a piece of an extracted medical record, stored with
// its embedding for similarity search. Chunks are written by the
// ingestion path and read by the retrieval service.
type DocumentChunk struct {
	ID         string    `json:"id"`
	RecordID   string    `json:"record_id"`
	PatientID  string    `json:"patient_id"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
	ChunkIndex int       `json:"chunk_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoredChunk is a retrieval result: chunk content plus its cosine
// similarity to the query, in [0,1]. Request-scoped only.
type ScoredChunk struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}
