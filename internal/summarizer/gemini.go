package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"briefly/internal/retry"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig contains configuration for the Gemini-backed summarizer.
type GeminiConfig struct {
	APIKey string
	// Model overrides DefaultGeminiModel when non-empty.
	Model string
}

// GeminiSummarizer calls the Gemini API to produce summaries.
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

// NewGeminiSummarizer builds a new summarizer instance. Callers own the
// returned instance and must Close it.
func NewGeminiSummarizer(ctx context.Context, cfg GeminiConfig) (*GeminiSummarizer, error) {
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

	return &GeminiSummarizer{client: client, model: model}, nil
}

func (s *GeminiSummarizer) Close() error {
	return s.client.Close()
}

// Model reports the model this summarizer sends requests to.
func (s *GeminiSummarizer) Model() string {
	return s.model
}

// Summarize produces a structured markdown summary of the input.
func (s *GeminiSummarizer) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return "", errors.New("input is empty")
	}

	model := s.client.GenerativeModel(s.model)
	model.SetTemperature(temperature)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(buildUserPrompt(input)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", retry.FromGoogleAPI(err))
	}

	summary := strings.TrimSpace(geminiResponseText(resp))
	if summary == "" {
		return "", errors.New("response has no text parts")
	}

	return summary, nil
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

		// One candidate is enough, the model is asked for a single answer.
		break
	}

	return b.String()
}
