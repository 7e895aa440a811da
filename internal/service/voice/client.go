package voice

import "context"

// Synthesizer defines the interface for text-to-speech providers.
type Synthesizer interface {
	// Synthesize converts text to audio and returns the raw audio bytes
	// (MP3). Language is a two-letter hint ("en", "hi", "mr").
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}
