package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"mvdan.cc/xurls/v2"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	clientTimeout = 20 * time.Second
	maxBodyBytes  = 10 << 20
)

// Kind tells which extraction path produced a document.
type Kind string

const (
	KindPage  Kind = "page"
	KindFeed  Kind = "feed"
	KindFile  Kind = "file"
	KindAudio Kind = "audio"
)

// Document is the plain-text content handed to the summarizer.
type Document struct {
	Title     string
	SourceURL string
	Text      string
	Kind      Kind
}

type Extractor struct {
	client     *http.Client
	feedParser *gofeed.Parser
	log        *slog.Logger
}

func New(log *slog.Logger) *Extractor {
	return &Extractor{
		client:     &http.Client{Timeout: clientTimeout},
		feedParser: gofeed.NewParser(),
		log:        log,
	}
}

// Client exposes the shared HTTP client so other downloads reuse its timeout.
func (e *Extractor) Client() *http.Client {
	return e.client
}

// Fetch downloads a URL and extracts readable text from it. RSS and Atom
// responses become a feed digest document, anything else goes through the
// HTML readability path.
func (e *Extractor) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			e.log.ErrorContext(ctx, "Failed to close response body",
				"error", closeErr,
				"url", rawURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if looksLikeFeed(resp.Header.Get("Content-Type"), body) {
		doc, feedErr := e.feedDocument(rawURL, body)
		if feedErr == nil {
			return doc, nil
		}

		e.log.WarnContext(ctx, "Feed-shaped response did not parse as feed",
			"error", feedErr,
			"url", rawURL)
	}

	return parseHTMLDocument(rawURL, body)
}

// ReadFile extracts a document from a local HTML or plain-text file.
func (e *Extractor) ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		doc, parseErr := parseHTMLDocument("", data)
		if parseErr != nil {
			return nil, parseErr
		}

		if doc.Title == "" {
			doc.Title = filepath.Base(path)
		}
		doc.Kind = KindFile

		return doc, nil
	default:
		text := strings.TrimSpace(string(data))
		if text == "" {
			return nil, fmt.Errorf("file %q is empty", path)
		}

		return &Document{
			Title: filepath.Base(path),
			Text:  text,
			Kind:  KindFile,
		}, nil
	}
}

// FindURL returns the first strict http(s) URL found in free text, or the
// empty string.
func FindURL(text string) string {
	re, err := xurls.StrictMatchingScheme("https?://")
	if err != nil {
		return ""
	}

	return strings.TrimSpace(re.FindString(text))
}
