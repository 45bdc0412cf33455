package cli

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"briefly/internal/config"
	"briefly/internal/download"
	"briefly/internal/extract"
	"briefly/internal/retry"
	"briefly/internal/transcribe"
)

type audioOptions struct {
	contextText     string
	transcribeModel string
}

func (a *app) audioCommand() *cobra.Command {
	var opts audioOptions

	cmd := &cobra.Command{
		Use:   "audio <path|url>",
		Short: "Transcribe an audio recording and summarize the transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAudio(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.contextText, "context", "",
		"context text (names, topic, jargon) that biases the transcription")
	cmd.Flags().StringVar(&opts.transcribeModel, "transcribe-model", "",
		"transcription model override")

	return cmd
}

func (a *app) runAudio(ctx context.Context, arg string, opts audioOptions) error {
	localPath := arg
	sourceURL := ""

	if u := extract.FindURL(arg); u != "" {
		sourceURL = u

		p, cleanup, err := download.ToTemp(ctx, nil, u)
		if err != nil {
			return fmt.Errorf("download audio: %w", err)
		}
		defer cleanup()

		a.log.InfoContext(ctx, "Audio downloaded",
			"url", u,
			"path", p)

		localPath = p
	}

	t, cleanup, err := a.newTranscriber(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	transcript, err := retry.Do(ctx, a.retryPolicy(), nil, a.log,
		func(ctx context.Context) (string, error) {
			return t.Transcribe(ctx, localPath, transcribe.Options{
				Model:   opts.transcribeModel,
				Context: opts.contextText,
			})
		})
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	a.log.InfoContext(ctx, "Audio transcribed",
		"path", localPath,
		"chars", len(transcript))

	doc := &extract.Document{
		Title:     audioTitle(arg, sourceURL),
		SourceURL: sourceURL,
		Text:      transcript,
		Kind:      extract.KindAudio,
	}

	return a.summarizeAndWrite(ctx, doc)
}

func (a *app) newTranscriber(
	ctx context.Context,
) (transcribe.Transcriber, func(), error) {
	switch a.cfg.Provider {
	case config.ProviderGemini:
		t, err := transcribe.NewGeminiTranscriber(ctx, transcribe.GeminiConfig{
			APIKey: a.cfg.GeminiAPIKey,
		}, a.log)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini transcriber: %w", err)
		}

		return t, func() { _ = t.Close() }, nil
	default:
		t, err := transcribe.NewOpenAITranscriber(transcribe.OpenAIConfig{
			APIKey: a.cfg.OpenAIAPIKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create openai transcriber: %w", err)
		}

		return t, func() {}, nil
	}
}

func audioTitle(arg, sourceURL string) string {
	if sourceURL != "" {
		if u, err := url.Parse(sourceURL); err == nil {
			if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
				return base
			}
		}
		return sourceURL
	}

	return filepath.Base(arg)
}
