package extract

import "context"

// Extractor defines the interface for pulling plain text out of an
// uploaded or referenced medical record.
type Extractor interface {
	// ExtractText fetches the document at the given URL and returns its
	// text content.
	ExtractText(ctx context.Context, url string) (string, error)
}
