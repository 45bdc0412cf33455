package extract

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	feedGracePeriod = 10 * time.Minute
	feedWindow      = 24 * time.Hour
	feedMaxItems    = 20
)

func looksLikeFeed(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") {
		return true
	}

	head := bytes.TrimSpace(body)
	if len(head) > 512 {
		head = head[:512]
	}

	for _, marker := range [][]byte{[]byte("<rss"), []byte("<feed"), []byte("<rdf:RDF")} {
		if bytes.Contains(head, marker) {
			return true
		}
	}

	return false
}

// feedDocument turns an RSS/Atom payload into a digest document built from
// items published within the last day (with a small grace period). When the
// feed has no recent items, the newest ones are taken instead so the tool
// still produces a summary.
func (e *Extractor) feedDocument(sourceURL string, body []byte) (*Document, error) {
	parsed, err := e.feedParser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed (URL = %s): %w", sourceURL, err)
	}

	items := recentItems(parsed.Items, time.Now())
	if len(items) == 0 {
		return nil, fmt.Errorf("feed has no items (URL = %s)", sourceURL)
	}

	var b strings.Builder
	for _, item := range items {
		title := collapseWhitespace(item.Title)
		if title == "" {
			title = strings.TrimSpace(item.Link)
		}
		if title == "" {
			continue
		}

		b.WriteString("- ")
		b.WriteString(title)
		b.WriteString("\n")

		body := item.Description
		if body == "" {
			body = item.Content
		}
		if text := htmlToText(body); text != "" {
			b.WriteString("  ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return nil, fmt.Errorf("feed items have no text (URL = %s)", sourceURL)
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = sourceURL
	}

	return &Document{
		Title:     title,
		SourceURL: sourceURL,
		Text:      text,
		Kind:      KindFeed,
	}, nil
}

func recentItems(items []*gofeed.Item, now time.Time) []*gofeed.Item {
	cutoff := now.Add(-feedWindow - feedGracePeriod)

	var recent []*gofeed.Item
	for _, item := range items {
		if item == nil {
			continue
		}

		published := itemTime(item)
		if published.IsZero() || published.After(cutoff) {
			recent = append(recent, item)
		}
	}

	if len(recent) == 0 {
		recent = append(recent, items...)
		sort.SliceStable(recent, func(i, j int) bool {
			return itemTime(recent[i]).After(itemTime(recent[j]))
		})
	}

	if len(recent) > feedMaxItems {
		recent = recent[:feedMaxItems]
	}

	return recent
}

func itemTime(item *gofeed.Item) time.Time {
	if item == nil {
		return time.Time{}
	}
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// htmlToText flattens an HTML fragment (feed descriptions are usually HTML)
// into collapsed plain text.
func htmlToText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseWhitespace(fragment)
	}

	doc.Find("script, style").Remove()

	return collapseWhitespace(doc.Text())
}
