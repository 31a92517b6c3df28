package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<title>Coronavirus outbreak spreads to new regions</title>
	<meta property="og:description" content="Officials confirm new coronavirus cases across the region"/>
	<meta property="article:modified_time" content="2020-01-31T22:10:38+0800"/>
	<meta name="author" content="Alice Woods"/>
	<meta property="article:author" content="Bob Tan"/>
	<meta property="og:image" content="https://news.example.com/img.jpg"/>
</head>
<body>
	<article>
		<h1>Coronavirus outbreak spreads to new regions</h1>
		<p>Health authorities confirmed on Friday that the coronavirus outbreak has
		spread to three new regions, with dozens of additional cases reported
		overnight. Hospitals have opened dedicated isolation wards and officials
		urged residents to avoid unnecessary travel.</p>
		<p>The health ministry said screening measures at airports and train
		stations would be expanded over the weekend, and that test results for
		several suspected cases were still pending. Schools in the affected
		districts will remain closed until further notice.</p>
		<p>International agencies are coordinating the response, and a shipment
		of protective equipment is expected to arrive early next week.</p>
	</article>
</body>
</html>`

func TestArticleExtractor_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "Mozilla/5.0" {
			t.Errorf("Expected browser-like User-Agent, got %q", got)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	extractor := NewArticleExtractor(&http.Client{}, "Mozilla/5.0")
	result, err := extractor.Extract(context.Background(), server.URL+"/news/outbreak")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Description != "Officials confirm new coronavirus cases across the region" {
		t.Errorf("Unexpected og:description: %q", result.Description)
	}
	if result.ModifiedTime != "2020-01-31T22:10:38+0800" {
		t.Errorf("Unexpected article:modified_time: %q", result.ModifiedTime)
	}
	if result.SourceURL != server.URL {
		t.Errorf("Expected source URL %q, got %q", server.URL, result.SourceURL)
	}
	if !strings.Contains(result.Text, "isolation wards") {
		t.Errorf("Expected extracted body text, got %q", result.Text)
	}

	wantAuthors := map[string]bool{"Alice Woods": true, "Bob Tan": true}
	for _, author := range result.Authors {
		if !wantAuthors[author] {
			t.Errorf("Unexpected author: %q", author)
		}
		delete(wantAuthors, author)
	}
	for missing := range wantAuthors {
		t.Errorf("Missing author: %q", missing)
	}
}

func TestArticleExtractor_Extract_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	extractor := NewArticleExtractor(&http.Client{}, "Mozilla/5.0")
	if _, err := extractor.Extract(context.Background(), server.URL); err == nil {
		t.Error("Expected an error for a 404 article")
	}
}

func TestCollectAuthors_Dedup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!DOCTYPE html><html><head>
			<meta name="author" content="Alice Woods"/>
			<meta property="article:author" content="alice woods"/>
			<meta property="article:author" content="https://facebook.com/alicewoods"/>
		</head><body><article>
		<p>Body text long enough for extraction to have something to work with,
		repeated statements about the ongoing situation and its consequences for
		residents of the affected areas over several days.</p>
		</article></body></html>`))
	}))
	defer server.Close()

	extractor := NewArticleExtractor(&http.Client{}, "Mozilla/5.0")
	result, err := extractor.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Case-insensitive dedup, and profile links are not author names.
	if len(result.Authors) != 1 || result.Authors[0] != "Alice Woods" {
		t.Errorf("Expected single deduplicated author, got %v", result.Authors)
	}
}
