package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	llmModels "healthchain/internal/domain/models/llm"
	llmServices "healthchain/internal/domain/services/llm"

	"healthchain/internal/domain"
	"healthchain/internal/domain/repositories"
)

// maxChunkChars bounds how much of each record chunk enters the prompt.
const maxChunkChars = 2000

// analysisPrompt asks for strict JSON; anything else is an upstream
// data error.
const analysisPrompt = `You are an expert health analyst. Analyze the following medical records
for a patient and output a strict JSON representation of their health
trends.

Extract ONLY these chronological data points: Blood Pressure (Systolic
BP and Diastolic BP), Blood Sugar, and Weight. If a metric is not found
in a record, omit it or set it to null for that date.

The JSON must match this structure exactly. Do not wrap it in markdown
fences:
{
  "summary": "2-3 sentences on the overall health trajectory.",
  "profile": {
    "weight": "e.g. 75 kg or null",
    "height": "e.g. 175 cm or null",
    "age": "e.g. 32 yrs or null",
    "blood_group": "e.g. O+ or null",
    "allergies": ["list of allergies, or empty array"]
  },
  "available_metrics": ["metric names found, from the allowed list"],
  "metrics": [
    {"date": "YYYY-MM-DD", "Systolic BP": 120, "Diastolic BP": 80, "Blood Sugar": 95, "Weight": 75}
  ],
  "tips": ["three actionable, specific tips based on the records"]
}

Records:
`

// Analysis is the parsed model output returned to the caller.
type Analysis struct {
	Summary          string           `json:"summary"`
	Profile          map[string]any   `json:"profile"`
	AvailableMetrics []string         `json:"available_metrics"`
	Metrics          []map[string]any `json:"metrics"`
	Tips             []string         `json:"tips"`
}

// emptyAnalysis is returned when the patient has no extracted records.
func emptyAnalysis() *Analysis {
	return &Analysis{
		Summary: "No medical records have been extracted yet. Please upload and extract records to generate insights.",
		Metrics: []map[string]any{},
		Tips:    []string{"Upload your latest lab reports, prescriptions, or discharge summaries to get started."},
	}
}

// Service produces structured health-trend analyses from a patient's
// extracted record chunks.
type Service struct {
	chunkRepo repositories.DocumentChunkRepository
	provider  llmServices.Provider
	model     string
	logger    *slog.Logger
}

func NewService(
	chunkRepo repositories.DocumentChunkRepository,
	provider llmServices.Provider,
	model string,
	logger *slog.Logger,
) *Service {
	return &Service{
		chunkRepo: chunkRepo,
		provider:  provider,
		model:     model,
		logger:    logger,
	}
}

// AnalyzeHealth runs the analysis over all of the patient's chunks. A
// model reply that is not valid JSON is an ErrUpstreamData (the handler
// maps it to 502), never silently passed through.
func (s *Service) AnalyzeHealth(ctx context.Context, patientID string) (*Analysis, error) {
	chunks, err := s.chunkRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return emptyAnalysis(), nil
	}

	var b strings.Builder
	b.WriteString(analysisPrompt)
	for _, chunk := range chunks {
		content := truncate(chunk.Content, maxChunkChars)
		fmt.Fprintf(&b, "\n--- Record Chunk (%s) ---\n%s\n",
			chunk.CreatedAt.Format("2006-01-02"), content)
	}

	resp, err := s.provider.GenerateResponse(ctx, &llmServices.GenerateRequest{
		Model: s.model,
		Messages: []llmServices.Message{
			{
				Role:    "user",
				Content: []*llmModels.ContentBlock{llmModels.NewTextBlock(b.String())},
			},
		},
		MaxTokens: 4096,
	})
	if err != nil {
		return nil, err
	}

	raw := stripFences(resp.Text())
	if !gjson.Valid(raw) {
		s.logger.Error("health analysis returned malformed JSON",
			"patient_id", patientID, "raw_len", len(raw))
		return nil, domain.NewUpstreamDataError("model returned malformed analysis data")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, domain.NewUpstreamDataError("model analysis did not match expected structure")
	}

	return &analysis, nil
}

// truncate cuts s to at most max bytes without splitting a rune, so
// Devanagari record text stays valid UTF-8 in the prompt.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// stripFences removes a markdown code fence the model sometimes wraps
// around the JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
