package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"briefly/internal/retry"
)

// DefaultOpenAIModel is used when no transcription model is configured.
const DefaultOpenAIModel = openai.AudioModelWhisper1

// OpenAIConfig contains configuration for the Whisper-backed transcriber.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// OpenAITranscriber uploads audio to OpenAI's transcriptions endpoint.
type OpenAITranscriber struct {
	client openai.Client
	model  openai.AudioModel
}

func NewOpenAITranscriber(cfg OpenAIConfig) (*OpenAITranscriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("API key is required")
	}

	model := DefaultOpenAIModel
	if m := strings.TrimSpace(cfg.Model); m != "" {
		model = openai.AudioModel(m)
	}

	return &OpenAITranscriber{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  model,
	}, nil
}

// Model reports the transcription model in use.
func (t *OpenAITranscriber) Model() string {
	return string(t.model)
}

// Transcribe uploads the file and returns its transcript text.
func (t *OpenAITranscriber) Transcribe(
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

	model := t.model
	if m := strings.TrimSpace(opts.Model); m != "" {
		model = openai.AudioModel(m)
	}

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: model,
	}
	if prompt := strings.TrimSpace(opts.Context); prompt != "" {
		params.Prompt = openai.String(prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("do request: %w", retry.FromOpenAI(err))
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		return "", errors.New("transcription text is missing")
	}

	return transcript, nil
}
