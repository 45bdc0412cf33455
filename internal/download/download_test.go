package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestToTemp(t *testing.T) {
	payload := []byte("RIFF fake wav bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	path, cleanup, err := ToTemp(context.Background(), srv.Client(), srv.URL+"/sample.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".wav") {
		t.Errorf("expected .wav extension to be kept, got %q", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("unexpected file content: %q", got)
	}

	cleanup()
	if _, err = os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected cleanup to remove the file")
	}
}

func TestToTempRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, _, err := ToTemp(context.Background(), srv.Client(), srv.URL+"/missing.mp3"); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestToTempEmptyURL(t *testing.T) {
	if _, _, err := ToTemp(context.Background(), nil, "  "); err == nil {
		t.Fatalf("expected error for empty URL")
	}
}

func TestURLExt(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"mp3", "https://example.com/audio/episode.mp3", ".mp3"},
		{"query ignored", "https://example.com/a.m4a?token=x", ".m4a"},
		{"no extension", "https://example.com/stream", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := urlExt(test.url); got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}
