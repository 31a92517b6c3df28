package database

import (
	"fmt"

	"github.com/outbreakwatch/newswire/app/feed"
)

// Table names are resolved through a whitelist; the caller passes the
// logical name ("prod" or "test"), never raw SQL.
var recordTables = map[string]string{
	"prod": "records_prod",
	"test": "records_test",
}

// RecordRepository handles database operations for finished records.
type RecordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Insert stores one record in the selected table. A URL already present
// in the table is left untouched; the dedup cache is the authoritative
// at-most-once guard, the unique index is the backstop.
func (r *RecordRepository) Insert(record feed.Record, table string) error {
	tableName, err := resolveTable(table)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(fmt.Sprintf(`
		INSERT INTO %s (title, description, url, added_on, language, site_name, author, content, published_at, url_to_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, tableName),
		record.Title, record.Description, record.URL, record.AddedOn,
		record.Language, record.SiteName, record.Author, record.Content,
		record.PublishedAt, record.URLToImage)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// GetRecords returns the most recently added records for a language.
func (r *RecordRepository) GetRecords(table, language string, limit int) ([]feed.Record, error) {
	tableName, err := resolveTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT title, description, url, added_on, language, site_name, author, content, published_at, url_to_image
		FROM %s
		WHERE language = ?
		ORDER BY id DESC
		LIMIT ?
	`, tableName), language, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []feed.Record
	for rows.Next() {
		var rec feed.Record
		err := rows.Scan(&rec.Title, &rec.Description, &rec.URL, &rec.AddedOn,
			&rec.Language, &rec.SiteName, &rec.Author, &rec.Content,
			&rec.PublishedAt, &rec.URLToImage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetRecordCount returns the total number of stored records per language.
func (r *RecordRepository) GetRecordCount(table string) (map[string]int, error) {
	tableName, err := resolveTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT language, COUNT(*) FROM %s GROUP BY language
	`, tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var language string
		var count int
		if err := rows.Scan(&language, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[language] = count
	}

	return counts, rows.Err()
}

func resolveTable(table string) (string, error) {
	tableName, ok := recordTables[table]
	if !ok {
		return "", fmt.Errorf("unknown record table: %q", table)
	}
	return tableName, nil
}
