package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Result carries everything the enrichment step needs from an article
// page. A failed extraction is reported as an error, never as a
// partially-filled Result.
type Result struct {
	Text         string
	Language     string
	SourceURL    string // scheme://host of the resolved article URL
	Authors      []string
	PublishDate  *time.Time
	TopImage     string
	Description  string // og:description meta content
	ModifiedTime string // article:modified_time meta content, raw
}

// ArticleExtractor downloads an article page and extracts its readable
// body plus the page metadata the record assembly relies on.
type ArticleExtractor struct {
	httpClient *http.Client
	userAgent  string
}

func NewArticleExtractor(httpClient *http.Client, userAgent string) *ArticleExtractor {
	return &ArticleExtractor{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (e *ArticleExtractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	data, finalURL, err := e.fetchArticle(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(data), finalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	result := &Result{
		Text:        article.TextContent,
		Language:    article.Language,
		SourceURL:   finalURL.Scheme + "://" + finalURL.Host,
		PublishDate: article.PublishedTime,
		TopImage:    article.Image,
	}

	e.scrapeMeta(data, article.Byline, result)

	slog.Debug("Content extracted",
		"url", rawURL,
		"content_length", len(result.Text),
		"authors", len(result.Authors))

	return result, nil
}

// scrapeMeta pulls the page meta tags readability does not expose:
// og:description, article:modified_time and the author list.
func (e *ArticleExtractor) scrapeMeta(data []byte, byline string, result *Result) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		// Metadata is best-effort; the readable body already succeeded.
		slog.Debug("Failed to parse article metadata", "error", err)
		if byline = strings.TrimSpace(byline); byline != "" {
			result.Authors = []string{byline}
		}
		return
	}

	result.Description = metaContent(doc, `meta[property="og:description"]`)
	result.ModifiedTime = metaContent(doc, `meta[property="article:modified_time"]`)
	result.Authors = collectAuthors(doc, byline)
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func collectAuthors(doc *goquery.Document, byline string) []string {
	var authors []string
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "http") || seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		authors = append(authors, name)
	}

	doc.Find(`meta[name="author"], meta[property="article:author"]`).Each(func(_ int, sel *goquery.Selection) {
		if content, ok := sel.Attr("content"); ok {
			add(content)
		}
	})
	add(byline)

	return authors
}

func (e *ArticleExtractor) fetchArticle(ctx context.Context, rawURL string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// resp.Request.URL reflects the final URL after redirects, which is
	// what siteName derivation needs.
	return data, resp.Request.URL, nil
}
