package registry

// FieldSchema maps the logical entry fields to the tag names used by a
// particular feed dialect. PublishDate is optional; feeds without a
// per-entry date tag leave it empty.
type FieldSchema struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	PublishDate string `yaml:"publish_date"`
}

// Source is one feed to crawl. Immutable once loaded.
type Source struct {
	Language string
	URL      string      `yaml:"url"`
	Schema   FieldSchema `yaml:"schema"`
}

// Registry holds the full feed configuration: the keyword relevance set
// and the per-language source lists.
type Registry struct {
	Keywords []string            `yaml:"keywords"`
	Feeds    map[string][]Source `yaml:"feeds"`
}
