package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const minReadableChars = 140

// Elements that never carry article text.
const boilerplateSelector = "script, style, noscript, template, iframe, svg, " +
	"nav, header, footer, aside, form, button"

// Selectors tried in order when looking for the main content block.
var contentSelectors = []string{
	"article",
	"main",
	"[role='main']",
	"#content",
	".post-content",
	".article-body",
	"body",
}

var blockSelector = strings.Join([]string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"p", "li", "dt", "dd", "blockquote", "pre", "figcaption", "td",
}, ", ")

func parseHTMLDocument(sourceURL string, body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}

	title := pageTitle(doc)

	doc.Find(boilerplateSelector).Remove()

	var text string
	for _, selector := range contentSelectors {
		root := doc.Find(selector).First()
		if root.Length() == 0 {
			continue
		}

		text = blockText(root)
		if len(text) >= minReadableChars {
			break
		}
	}

	if text == "" {
		text = collapseWhitespace(doc.Find("body").Text())
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no readable text found (URL = %s)", sourceURL)
	}

	return &Document{
		Title:     title,
		SourceURL: sourceURL,
		Text:      text,
		Kind:      KindPage,
	}, nil
}

func pageTitle(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title
		}
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}

// blockText joins the text of block-level elements with blank lines,
// skipping blocks whose text already appeared inside a parent block.
func blockText(root *goquery.Selection) string {
	var blocks []string

	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks (a p inside a blockquote, li under li) would
		// duplicate text, take only the innermost ones.
		if s.Find(blockSelector).Length() > 0 {
			return
		}

		block := collapseWhitespace(s.Text())
		if block == "" {
			return
		}

		blocks = append(blocks, block)
	})

	if len(blocks) == 0 {
		return collapseWhitespace(root.Text())
	}

	return strings.Join(blocks, "\n\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
