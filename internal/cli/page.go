package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"briefly/internal/extract"
)

func (a *app) pageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "page <url|file>",
		Short: "Summarize a web page, feed, or local document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPage(cmd.Context(), args[0])
		},
	}
}

func (a *app) runPage(ctx context.Context, arg string) error {
	e := extract.New(a.log)

	var (
		doc *extract.Document
		err error
	)
	if u := extract.FindURL(arg); u != "" {
		doc, err = e.Fetch(ctx, u)
	} else {
		doc, err = e.ReadFile(arg)
	}
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}

	a.log.InfoContext(ctx, "Content extracted",
		"kind", doc.Kind,
		"title", doc.Title,
		"chars", len(doc.Text))

	return a.summarizeAndWrite(ctx, doc)
}
