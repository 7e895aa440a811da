package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultElevenLabsBaseURL is the base endpoint for ElevenLabs TTS
	DefaultElevenLabsBaseURL = "https://api.elevenlabs.io/v1/text-to-speech"
	// DefaultElevenLabsTimeout covers synthesis of multi-sentence replies
	DefaultElevenLabsTimeout = 60 * time.Second
	// DefaultVoiceID is a multilingual voice that handles Hindi and
	// Marathi alongside English
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	// DefaultModelID supports the languages the assistant speaks
	DefaultModelID = "eleven_multilingual_v2"
)

// ElevenLabsClient implements Synthesizer using the ElevenLabs API.
type ElevenLabsClient struct {
	apiKey     string
	voiceID    string
	modelID    string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsClient creates a new ElevenLabs TTS client.
func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		apiKey:  apiKey,
		voiceID: DefaultVoiceID,
		modelID: DefaultModelID,
		baseURL: DefaultElevenLabsBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultElevenLabsTimeout,
		},
	}
}

// Synthesize implements Synthesizer. The language hint is informational;
// the multilingual model detects language from the text itself.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	payload := map[string]interface{}{
		"text":     text,
		"model_id": c.modelID,
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
