// Package sink hands finished records to their destinations: per-language
// JSONL files, the database, or the terminal.
package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/outbreakwatch/newswire/app/feed"
)

const outputFilename = "output.jsonl"

// WriteJSONL writes one stream per language under dataDir, one JSON
// object per line. Existing files are replaced with the current run's
// records.
func WriteJSONL(records map[string][]feed.Record, dataDir string) error {
	for language, recs := range records {
		dir := filepath.Join(dataDir, language)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		path := filepath.Join(dir, outputFilename)
		if err := writeFile(path, recs); err != nil {
			return err
		}
		slog.Info("JSONL output written", "language", language, "records", len(recs), "path", path)
	}
	return nil
}

func writeFile(path string, records []feed.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	return nil
}
