package handler

import (
	"context"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"healthchain/internal/config"
	"healthchain/internal/httputil"
	"healthchain/internal/service/extract"
	"healthchain/internal/service/rag"
)

// ExtractHandler handles medical record ingestion
type ExtractHandler struct {
	extractor  extract.Extractor
	ragService *rag.Service
	logger     *slog.Logger
}

func NewExtractHandler(extractor extract.Extractor, ragService *rag.Service, logger *slog.Logger) *ExtractHandler {
	return &ExtractHandler{
		extractor:  extractor,
		ragService: ragService,
		logger:     logger,
	}
}

// ExtractRecordRequest is the ingestion request body.
type ExtractRecordRequest struct {
	PatientID string `json:"patient_id"`
	FileURL   string `json:"file_url"`
}

// Validate implements input validation for record extraction.
func (r ExtractRecordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, validation.Required),
		validation.Field(&r.FileURL, validation.Required, is.URL),
	)
}

// ExtractRecord queues text extraction and indexing of a record file.
// The pipeline runs in the background; the caller only learns the job
// was accepted, as extraction of large scans can outlive any sensible
// request deadline.
// POST /extract_record
func (h *ExtractHandler) ExtractRecord(w http.ResponseWriter, r *http.Request) {
	var req ExtractRecordRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	go h.process(req)

	httputil.RespondJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"status":  "processing",
	})
}

// process runs extraction and ingestion detached from the request, on
// its own deadline.
func (h *ExtractHandler) process(req ExtractRecordRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), config.RequestTimeout)
	defer cancel()

	text, err := h.extractor.ExtractText(ctx, req.FileURL)
	if err != nil {
		h.logger.Error("record extraction failed",
			"patient_id", req.PatientID, "file_url", req.FileURL, "error", err)
		return
	}

	result, err := h.ragService.ProcessDocument(ctx, req.PatientID, text)
	if err != nil {
		h.logger.Error("record ingestion failed",
			"patient_id", req.PatientID, "file_url", req.FileURL, "error", err)
		return
	}

	h.logger.Info("record extracted",
		"patient_id", req.PatientID,
		"record_id", result.RecordID,
		"chunk_count", result.ChunkCount)
}
