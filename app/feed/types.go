package feed

import (
	"errors"

	"github.com/outbreakwatch/newswire/app/registry"
)

// ErrFieldMissing reports that an entry does not carry the requested tag.
var ErrFieldMissing = errors.New("entry field missing")

// Document is a parsed feed document. It is shared read-only between all
// entry items produced from it, so stage-2 workers can reach
// document-level fallback fields.
type Document interface {
	Entries() []Entry
	// LastBuildDate returns the document-level build timestamp as the raw
	// string from the feed, or "" if the document has none.
	LastBuildDate() string
}

// Entry is one candidate article node inside a Document.
type Entry interface {
	// Field resolves a schema tag name to its text value. Returns
	// ErrFieldMissing when the tag is absent or empty.
	Field(tag string) (string, error)
}

// EntryItem is the stage-1 → stage-2 work unit: one entry plus the
// context needed to enrich it.
type EntryItem struct {
	Language  string
	SourceURL string
	Document  Document
	Entry     Entry
	Schema    registry.FieldSchema
}

// Record is the finished unit of output. Field names follow the JSONL
// sink format exactly.
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	AddedOn     string `json:"addedOn"`
	Language    string `json:"language"`
	SiteName    string `json:"siteName"`
	Author      string `json:"author"`
	Content     string `json:"content"`
	PublishedAt string `json:"publishedAt"`
	URLToImage  string `json:"urlToImage"`
}
