package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"briefly/internal/retry"
)

const (
	// DefaultGeminiModel is used when no transcription model is configured.
	DefaultGeminiModel = "gemini-2.0-flash"

	filePollInterval = 2 * time.Second
	filePollBudget   = 2 * time.Minute
)

const transcribePrompt = `Transcribe this audio recording verbatim.
Output only the spoken words as plain text, without timestamps,
speaker labels, or commentary.`

// GeminiConfig contains configuration for the Gemini-backed transcriber.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiTranscriber uploads audio through the Gemini Files API and asks a
// multimodal model for a verbatim transcript.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// NewGeminiTranscriber builds a transcriber. Callers own the returned
// instance and must Close it.
func NewGeminiTranscriber(
	ctx context.Context,
	cfg GeminiConfig,
	log *slog.Logger,
) (*GeminiTranscriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	model := DefaultGeminiModel
	if m := strings.TrimSpace(cfg.Model); m != "" {
		model = m
	}

	return &GeminiTranscriber{client: client, model: model, log: log}, nil
}

func (t *GeminiTranscriber) Close() error {
	return t.client.Close()
}

// Model reports the transcription model in use.
func (t *GeminiTranscriber) Model() string {
	return t.model
}

// Transcribe uploads the file, waits for the Files API to finish processing
// it, then generates the transcript.
func (t *GeminiTranscriber) Transcribe(
	ctx context.Context,
	path string,
	opts Options,
) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	file, err := t.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		MIMEType: mimeTypeForPath(path),
	})
	if err != nil {
		return "", fmt.Errorf("upload file: %w", retry.FromGoogleAPI(err))
	}
	defer func() {
		if deleteErr := t.client.DeleteFile(ctx, file.Name); deleteErr != nil {
			t.log.WarnContext(ctx, "Failed to delete uploaded file",
				"error", deleteErr,
				"file", file.Name)
		}
	}()

	if file, err = t.waitForFile(ctx, file); err != nil {
		return "", err
	}

	modelName := t.model
	if m := strings.TrimSpace(opts.Model); m != "" {
		modelName = m
	}

	prompt := transcribePrompt
	if hint := strings.TrimSpace(opts.Context); hint != "" {
		prompt += "\nContext about the recording:\n" + hint
	}

	model := t.client.GenerativeModel(modelName)

	resp, err := model.GenerateContent(ctx,
		genai.FileData{URI: file.URI, MIMEType: file.MIMEType},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", retry.FromGoogleAPI(err))
	}

	transcript := strings.TrimSpace(geminiResponseText(resp))
	if transcript == "" {
		return "", errors.New("response has no text parts")
	}

	return transcript, nil
}

func (t *GeminiTranscriber) waitForFile(
	ctx context.Context,
	file *genai.File,
) (*genai.File, error) {
	deadline := time.Now().Add(filePollBudget)

	for file.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("file %s still processing after %v", file.Name, filePollBudget)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(filePollInterval):
		}

		var err error
		if file, err = t.client.GetFile(ctx, file.Name); err != nil {
			return nil, fmt.Errorf("get file: %w", retry.FromGoogleAPI(err))
		}
	}

	if file.State != genai.FileStateActive {
		return nil, fmt.Errorf("file %s is in unexpected state %v", file.Name, file.State)
	}

	return file, nil
}

func geminiResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	b := strings.Builder{}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}

		break
	}

	return b.String()
}
