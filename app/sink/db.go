package sink

import (
	"fmt"
	"log/slog"

	"github.com/outbreakwatch/newswire/app/database"
	"github.com/outbreakwatch/newswire/app/feed"
)

// StoreDB inserts all records into the selected table ("prod" or
// "test"). Table selection is the caller's decision, not the sink's.
func StoreDB(records map[string][]feed.Record, repo *database.RecordRepository, table string) error {
	stored := 0
	for _, recs := range records {
		for _, rec := range recs {
			if err := repo.Insert(rec, table); err != nil {
				return fmt.Errorf("failed to store record %s: %w", rec.URL, err)
			}
			stored++
		}
	}

	slog.Info("Records stored", "table", table, "records", stored)
	return nil
}
