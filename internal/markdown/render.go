package markdown

import (
	"strings"
	"time"

	"briefly/internal/extract"
)

// Meta describes how a summary was produced, rendered as a footer.
type Meta struct {
	Provider    string
	Model       string
	GeneratedAt time.Time
}

// Render assembles the final markdown document: title, source line, the
// model's summary body, and a generation footer.
func Render(doc *extract.Document, summary string, meta Meta) string {
	b := strings.Builder{}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = "Summary"
	}

	b.WriteString("# ")
	b.WriteString(Escape(title))
	b.WriteString("\n\n")

	if sourceURL := strings.TrimSpace(doc.SourceURL); sourceURL != "" {
		b.WriteString("> Source: <")
		b.WriteString(sourceURL)
		b.WriteString(">\n\n")
	}

	b.WriteString(strings.TrimSpace(summary))
	b.WriteString("\n")

	if meta.Model != "" {
		b.WriteString("\n---\n\n_Generated ")
		if !meta.GeneratedAt.IsZero() {
			b.WriteString("on ")
			b.WriteString(meta.GeneratedAt.UTC().Format("2006-01-02"))
			b.WriteString(" ")
		}
		b.WriteString("by ")
		b.WriteString(Escape(meta.Model))
		if meta.Provider != "" {
			b.WriteString(" (")
			b.WriteString(Escape(meta.Provider))
			b.WriteString(")")
		}
		b.WriteString("_\n")
	}

	return b.String()
}
