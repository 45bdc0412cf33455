// Package transcribe turns local audio files into transcript text using a
// hosted speech or multimodal model.
package transcribe

import (
	"context"
	"path/filepath"
	"strings"
)

// Options tune a single transcription request.
type Options struct {
	// Model overrides the provider's default transcription model.
	Model string
	// Context is optional text (names, jargon, topic) that biases the model
	// toward the expected vocabulary.
	Context string
}

// Transcriber produces a transcript for a local audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, path string, opts Options) (string, error)
}

var audioMIMETypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".webm": "audio/webm",
}

// IsAudioPath reports whether the path or URL has a known audio extension.
func IsAudioPath(path string) bool {
	_, ok := audioMIMETypes[normalizedExt(path)]
	return ok
}

func mimeTypeForPath(path string) string {
	if mt, ok := audioMIMETypes[normalizedExt(path)]; ok {
		return mt
	}
	return "application/octet-stream"
}

func normalizedExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	// URLs may carry a query after the extension.
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}

	return ext
}
