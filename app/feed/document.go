package feed

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Parser turns a downloaded document into a Document. The registry mixes
// RSS/Atom feeds and news sitemaps under one schema shape, so parsing is
// a two-try lookup: the item convention first (gofeed handles the
// RSS/Atom dialect variance), then the sitemap url convention (generic
// tag-name queries, which also cover namespaced tags like
// news:publication_date).
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Parse(data []byte) (Document, error) {
	parsed, feedErr := p.gofeedParser.Parse(bytes.NewReader(data))
	if feedErr == nil && len(parsed.Items) > 0 {
		return &feedDocument{feed: parsed}, nil
	}

	if doc, err := parseSitemap(data); err == nil {
		return doc, nil
	}

	if feedErr == nil {
		// A valid feed with no items yields zero entries.
		return &feedDocument{feed: parsed}, nil
	}

	return nil, fmt.Errorf("failed to parse feed: %w", feedErr)
}

// feedDocument wraps a gofeed parse result (the "item" convention).
type feedDocument struct {
	feed *gofeed.Feed
}

func (d *feedDocument) Entries() []Entry {
	entries := make([]Entry, 0, len(d.feed.Items))
	for _, item := range d.feed.Items {
		entries = append(entries, &feedEntry{item: item})
	}
	return entries
}

// LastBuildDate returns the feed's raw updated string, which gofeed
// populates from lastBuildDate for RSS documents.
func (d *feedDocument) LastBuildDate() string {
	return d.feed.Updated
}

type feedEntry struct {
	item *gofeed.Item
}

func (e *feedEntry) Field(tag string) (string, error) {
	var value string

	switch strings.ToLower(tag) {
	case "title":
		value = e.item.Title
	case "description":
		value = e.item.Description
	case "link":
		value = e.item.Link
	case "pubdate", "published":
		value = e.item.Published
	case "guid":
		value = e.item.GUID
	default:
		value = e.item.Custom[tag]
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrFieldMissing, tag)
	}
	return value, nil
}

// sitemapDocument wraps a goquery parse (the "url" convention).
type sitemapDocument struct {
	doc     *goquery.Document
	entries *goquery.Selection
}

func parseSitemap(data []byte) (*sitemapDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	entries := doc.Find("url")
	if entries.Length() == 0 {
		return nil, fmt.Errorf("document has no url entries")
	}

	return &sitemapDocument{doc: doc, entries: entries}, nil
}

func (d *sitemapDocument) Entries() []Entry {
	entries := make([]Entry, 0, d.entries.Length())
	d.entries.Each(func(_ int, sel *goquery.Selection) {
		entries = append(entries, &sitemapEntry{sel: sel})
	})
	return entries
}

// Sitemaps carry no document-level build timestamp.
func (d *sitemapDocument) LastBuildDate() string {
	return ""
}

type sitemapEntry struct {
	sel *goquery.Selection
}

func (e *sitemapEntry) Field(tag string) (string, error) {
	node := e.sel.Find(tagSelector(tag)).First()
	if node.Length() == 0 {
		return "", fmt.Errorf("%w: %s", ErrFieldMissing, tag)
	}

	value := strings.TrimSpace(node.Text())
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrFieldMissing, tag)
	}
	return value, nil
}

// tagSelector escapes namespaced tag names (news:publication_date) so
// they are valid CSS selectors.
func tagSelector(tag string) string {
	return strings.ReplaceAll(strings.ToLower(tag), ":", "\\:")
}
