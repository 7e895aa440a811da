package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultExtractTimeout bounds the document fetch
	DefaultExtractTimeout = 30 * time.Second
	// maxDocumentBytes caps how much of a record we will read
	maxDocumentBytes = 5 << 20
)

var (
	tagPattern        = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)
	markupPattern     = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// HTTPExtractor implements Extractor for plain-text and HTML records
// reachable over HTTP. PDFs and scans go through an external OCR step
// before they reach this service.
type HTTPExtractor struct {
	httpClient *http.Client
}

func NewHTTPExtractor() *HTTPExtractor {
	return &HTTPExtractor{
		httpClient: &http.Client{
			Timeout: DefaultExtractTimeout,
		},
	}
}

// ExtractText implements Extractor.
func (e *HTTPExtractor) ExtractText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // Error ignored: response consumed

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("document fetch failed (status %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	text := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		text = stripHTML(text)
	}

	return strings.TrimSpace(text), nil
}

func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = markupPattern.ReplaceAllString(s, " ")
	return whitespacePattern.ReplaceAllString(s, " ")
}
