package finalize

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"healthchain/internal/service/voice"
)

//go:embed config/fallbacks.yaml
var fallbackFS embed.FS

// Fallback kinds. Generic covers model/tool failures, quota covers rate
// limiting, empty covers a model call that succeeded but produced no
// text.
const (
	KindGeneric = "generic"
	KindQuota   = "quota"
	KindEmpty   = "empty"
)

type fallbackEntry struct {
	Generic string `yaml:"generic"`
	Quota   string `yaml:"quota"`
	Empty   string `yaml:"empty"`
}

type fallbackFile struct {
	Languages map[string]fallbackEntry `yaml:"languages"`
}

// Finalizer turns an agent or chat outcome into the reply actually sent
// to the patient: fallback substitution for failures and optional voice
// synthesis. Voice failures degrade silently to text-only.
type Finalizer struct {
	fallbacks   map[string]fallbackEntry
	synthesizer voice.Synthesizer
	logger      *slog.Logger
}

// NewFinalizer loads the embedded fallback registry. The synthesizer may
// be nil when no TTS provider is configured.
func NewFinalizer(synthesizer voice.Synthesizer, logger *slog.Logger) (*Finalizer, error) {
	data, err := fallbackFS.ReadFile("config/fallbacks.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback registry: %w", err)
	}

	var file fallbackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fallback registry: %w", err)
	}
	if _, ok := file.Languages["en"]; !ok {
		return nil, fmt.Errorf("fallback registry missing english entries")
	}

	return &Finalizer{
		fallbacks:   file.Languages,
		synthesizer: synthesizer,
		logger:      logger,
	}, nil
}

// FallbackText returns the fallback reply for the language and kind.
// Unknown languages fall back to English.
func (f *Finalizer) FallbackText(language, kind string) string {
	entry, ok := f.fallbacks[language]
	if !ok {
		entry = f.fallbacks["en"]
	}

	switch kind {
	case KindQuota:
		return entry.Quota
	case KindEmpty:
		return entry.Empty
	default:
		return entry.Generic
	}
}

// IsQuotaError reports whether the error looks like upstream rate
// limiting or quota exhaustion.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	return strings.Contains(msg, "429") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(lower, "rate limit")
}

// Synthesize produces base64-encoded audio for the reply when voice is
// requested. Any synthesis failure returns "" so the caller still ships
// the text reply.
func (f *Finalizer) Synthesize(ctx context.Context, text, language string) string {
	if f.synthesizer == nil || text == "" {
		return ""
	}

	audio, err := f.synthesizer.Synthesize(ctx, text, language)
	if err != nil {
		f.logger.Warn("voice synthesis failed, continuing text-only",
			"language", language, "error", err)
		return ""
	}

	return base64.StdEncoding.EncodeToString(audio)
}
