package finalize

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type fakeSynthesizer struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func newTestFinalizer(t *testing.T, synth *fakeSynthesizer) *Finalizer {
	t.Helper()
	var f *Finalizer
	var err error
	if synth != nil {
		f, err = NewFinalizer(synth, slog.Default())
	} else {
		f, err = NewFinalizer(nil, slog.Default())
	}
	if err != nil {
		t.Fatalf("NewFinalizer: %v", err)
	}
	return f
}

func TestFallbackText_LanguageSelection(t *testing.T) {
	f := newTestFinalizer(t, nil)

	tests := []struct {
		name     string
		language string
		kind     string
		contains string
	}{
		{"marathi quota", "mr", KindQuota, "मला सध्या खूप विनंत्या येत आहेत"},
		{"hindi generic", "hi", KindGeneric, "फार्मेसी रिकॉर्ड्स"},
		{"hindi empty", "hi", KindEmpty, "क्षमा करें"},
		{"english generic", "en", KindGeneric, "pharmacy records"},
		{"unknown language falls back to english", "ta", KindQuota, "too many requests"},
		{"unknown kind falls back to generic", "en", "bogus", "pharmacy records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.FallbackText(tt.language, tt.kind)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("FallbackText(%q, %q) = %q, want substring %q",
					tt.language, tt.kind, got, tt.contains)
			}
		})
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status code", errors.New("anthropic API call failed: 429 too many"), true},
		{"quota word", errors.New("Quota exceeded for model"), true},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), true},
		{"rate limit", errors.New("rate limit reached"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSynthesize_DegradesSilently(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("tts down")}
	f := newTestFinalizer(t, synth)

	if got := f.Synthesize(context.Background(), "hello", "en"); got != "" {
		t.Errorf("expected empty audio on failure, got %q", got)
	}
	if synth.calls != 1 {
		t.Errorf("expected 1 synthesis attempt, got %d", synth.calls)
	}
}

func TestSynthesize_EncodesBase64(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte("mp3data")}
	f := newTestFinalizer(t, synth)

	got := f.Synthesize(context.Background(), "hello", "en")
	if got != "bXAzZGF0YQ==" {
		t.Errorf("unexpected encoding: %q", got)
	}
}

func TestSynthesize_NilSynthesizer(t *testing.T) {
	f := newTestFinalizer(t, nil)
	if got := f.Synthesize(context.Background(), "hello", "en"); got != "" {
		t.Errorf("expected empty audio without synthesizer, got %q", got)
	}
}
