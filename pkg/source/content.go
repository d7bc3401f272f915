package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const defaultMaxContentLen = 4000

// ContentExtractor fetches the readable body text of an article page.
type ContentExtractor interface {
	Extract(ctx context.Context, rawURL string) (string, error)
}

// Extractor implements ContentExtractor with go-readability.
type Extractor struct {
	client        *http.Client
	userAgent     string
	maxContentLen int
}

// NewExtractor creates a page extractor. maxLen <= 0 uses the default limit.
func NewExtractor(timeout time.Duration, userAgent string, maxLen int) *Extractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxLen <= 0 {
		maxLen = defaultMaxContentLen
	}
	return &Extractor{
		client:        &http.Client{Timeout: timeout},
		userAgent:     userAgent,
		maxContentLen: maxLen,
	}
}

// Extract downloads rawURL and returns its main text, truncated to the limit.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	page, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", rawURL, err)
	}

	return truncate(strings.TrimSpace(page.TextContent), e.maxContentLen), nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
