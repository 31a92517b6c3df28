package registry

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the registry YAML file, validates every source and stamps
// each source with its language key.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}

	return reg, nil
}

// Parse unmarshals and validates registry YAML.
func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(reg.Keywords) == 0 {
		return nil, fmt.Errorf("registry defines no keywords")
	}
	if len(reg.Feeds) == 0 {
		return nil, fmt.Errorf("registry defines no feeds")
	}

	for lang, sources := range reg.Feeds {
		for i := range sources {
			src := &sources[i]
			src.Language = lang
			if err := validateSource(src); err != nil {
				return nil, fmt.Errorf("invalid source %q (%s): %w", src.URL, lang, err)
			}
		}
		reg.Feeds[lang] = sources
		slog.Debug("Registry language loaded", "language", lang, "sources", len(sources))
	}

	return &reg, nil
}

// Sources flattens the per-language lists into a single crawl list.
func (r *Registry) Sources() []Source {
	var all []Source
	for _, sources := range r.Feeds {
		all = append(all, sources...)
	}
	return all
}

func validateSource(src *Source) error {
	if src.URL == "" {
		return fmt.Errorf("missing url")
	}
	if src.Schema.Title == "" {
		return fmt.Errorf("schema is missing the title tag")
	}
	if src.Schema.Description == "" {
		return fmt.Errorf("schema is missing the description tag")
	}
	if src.Schema.URL == "" {
		return fmt.Errorf("schema is missing the url tag")
	}
	return nil
}
