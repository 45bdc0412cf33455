package summarizer

import (
	"context"
	"strings"
)

// Input describes the payload for a summary request.
type Input struct {
	// Text contains the original plain text to summarise.
	Text string
	// Title is optional document title metadata.
	Title string
	// SourceURL is optional metadata that helps the model reference the origin.
	SourceURL string
}

// Summarizer produces a structured markdown summary for a given input text.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}

const systemPrompt = `Summarize the document into structured markdown.

Rules:
- Start with a single-sentence TL;DR line.
- Follow with a "Key points" section of at most 7 short bullets.
- If the document contains critical facts (dates, numbers, names,
  decisions, calls to action), keep them; drop everything else.
- Neutral tone, no commentary about the document itself.
- Output in the same language as the input.
- Do not add a top-level heading, the caller renders its own title.`

func buildUserPrompt(input Input) string {
	b := strings.Builder{}

	if title := strings.TrimSpace(input.Title); title != "" {
		b.WriteString("Title:\n")
		b.WriteString(title)
		b.WriteString("\n")
	}
	if sourceURL := strings.TrimSpace(input.SourceURL); sourceURL != "" {
		b.WriteString("Source:\n")
		b.WriteString(sourceURL)
		b.WriteString("\n")
	}
	b.WriteString("Content:\n")
	b.WriteString(strings.TrimSpace(input.Text))

	return b.String()
}
