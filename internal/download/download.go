// Package download fetches remote files (typically audio recordings) to
// temporary local files so they can be uploaded to a transcription API.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	defaultTimeout = 5 * time.Minute
)

// ToTemp downloads rawURL into a temporary file and returns its path
// together with a cleanup func that removes the file. The file keeps the
// URL's extension so MIME detection keeps working downstream.
func ToTemp(ctx context.Context, client *http.Client, rawURL string) (string, func(), error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", nil, errors.New("URL is empty")
	}

	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	f, err := os.CreateTemp("", "briefly-*"+urlExt(rawURL))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		_ = os.Remove(f.Name())
	}

	if _, err = io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		cleanup()

		return "", nil, fmt.Errorf("write temp file: %w", err)
	}

	if err = f.Close(); err != nil {
		cleanup()

		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	return f.Name(), cleanup, nil
}

func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return path.Ext(u.Path)
}
