// Package cli implements the briefly commands using Cobra.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"briefly/internal/config"
	"briefly/internal/extract"
	"briefly/internal/markdown"
	"briefly/internal/retry"
	"briefly/internal/summarizer"
	"briefly/internal/transcribe"
)

type app struct {
	log *slog.Logger
	cfg config.Config

	output      string
	provider    string
	model       string
	maxAttempts int
}

// Execute builds the command tree and runs it.
func Execute(ctx context.Context, log *slog.Logger) error {
	a := &app{log: log}

	root := &cobra.Command{
		Use:   "briefly <url|path>",
		Short: "Summarize web pages, feeds, and audio recordings with a hosted LLM",
		Long: `briefly extracts readable text from a web page, RSS/Atom feed, or audio
recording, asks a hosted model for a structured summary, and renders the
result as markdown.

The bare form routes by input: audio file extensions go through
transcription, everything else through page extraction. Use the page and
audio subcommands to force a path.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if transcribe.IsAudioPath(args[0]) {
				return a.runAudio(cmd.Context(), args[0], audioOptions{})
			}
			return a.runPage(cmd.Context(), args[0])
		},
	}

	root.PersistentFlags().StringVarP(&a.output, "output", "o", "",
		"write markdown to this file instead of stdout")
	root.PersistentFlags().StringVar(&a.provider, "provider", "",
		"model provider: openai or gemini")
	root.PersistentFlags().StringVar(&a.model, "model", "",
		"summary model override")
	root.PersistentFlags().IntVar(&a.maxAttempts, "max-attempts", 0,
		"attempt budget for remote model calls")

	root.AddCommand(a.pageCommand(), a.audioCommand())

	return root.ExecuteContext(ctx)
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("provider") {
		cfg.Provider = a.provider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = a.model
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = a.maxAttempts
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg

	return nil
}

func (a *app) retryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: a.cfg.MaxAttempts,
		BaseDelay:   a.cfg.BaseDelay,
	}
}

// newSummarizer builds the configured provider's summarizer along with the
// render metadata and a cleanup func.
func (a *app) newSummarizer(
	ctx context.Context,
) (summarizer.Summarizer, markdown.Meta, func(), error) {
	switch a.cfg.Provider {
	case config.ProviderGemini:
		s, err := summarizer.NewGeminiSummarizer(ctx, summarizer.GeminiConfig{
			APIKey: a.cfg.GeminiAPIKey,
			Model:  a.cfg.Model,
		})
		if err != nil {
			return nil, markdown.Meta{}, nil, fmt.Errorf("create gemini summarizer: %w", err)
		}

		meta := markdown.Meta{
			Provider:    config.ProviderGemini,
			Model:       s.Model(),
			GeneratedAt: time.Now(),
		}

		return s, meta, func() { _ = s.Close() }, nil
	default:
		s, err := summarizer.NewOpenAISummarizer(summarizer.OpenAIConfig{
			APIKey: a.cfg.OpenAIAPIKey,
			Model:  a.cfg.Model,
		})
		if err != nil {
			return nil, markdown.Meta{}, nil, fmt.Errorf("create openai summarizer: %w", err)
		}

		meta := markdown.Meta{
			Provider:    config.ProviderOpenAI,
			Model:       s.Model(),
			GeneratedAt: time.Now(),
		}

		return s, meta, func() {}, nil
	}
}

// summarizeAndWrite runs the summary request through the retry wrapper and
// renders the markdown output.
func (a *app) summarizeAndWrite(ctx context.Context, doc *extract.Document) error {
	s, meta, cleanup, err := a.newSummarizer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := retry.Do(ctx, a.retryPolicy(), nil, a.log,
		func(ctx context.Context) (string, error) {
			return s.Summarize(ctx, summarizer.Input{
				Text:      doc.Text,
				Title:     doc.Title,
				SourceURL: doc.SourceURL,
			})
		})
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	a.log.InfoContext(ctx, "Summary produced",
		"provider", meta.Provider,
		"model", meta.Model,
		"chars", len(summary))

	return a.write(markdown.Render(doc, summary, meta))
}

func (a *app) write(out string) error {
	if a.output == "" {
		if _, err := fmt.Fprint(os.Stdout, out); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(a.output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	return nil
}
