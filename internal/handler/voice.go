package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"healthchain/internal/httputil"
	"healthchain/internal/service/voice"
)

// VoiceHandler handles standalone voice synthesis
type VoiceHandler struct {
	synthesizer voice.Synthesizer
	logger      *slog.Logger
}

func NewVoiceHandler(synthesizer voice.Synthesizer, logger *slog.Logger) *VoiceHandler {
	return &VoiceHandler{
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// SynthesizeRequest is the synthesis request body.
type SynthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Validate implements input validation for voice synthesis.
func (r SynthesizeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, 4096)),
		validation.Field(&r.Language, validation.In("", "en", "hi", "mr")),
	)
}

// Synthesize converts text to speech
// POST /synthesize_voice
func (h *VoiceHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	if h.synthesizer == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "voice synthesis is not configured")
		return
	}

	var req SynthesizeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	audio, err := h.synthesizer.Synthesize(r.Context(), req.Text, req.Language)
	if err != nil {
		h.logger.Error("voice synthesis failed", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, "voice synthesis failed")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"audio_data": base64.StdEncoding.EncodeToString(audio),
	})
}
