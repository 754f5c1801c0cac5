package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const recordColumns = "id, filename, path, size, extension, category, created_at, updated_at"

// GetOrCreateRecord returns the record for filename, creating it from the
// file at path when none exists yet.
func (s *Store) GetOrCreateRecord(ctx context.Context, filename, path string) (*Record, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, errors.New("filename must not be empty")
	}

	existing, err := s.RecordByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	var size int64
	if info, statErr := os.Stat(path); statErr == nil {
		size = info.Size()
	}
	extension := strings.ToLower(filepath.Ext(filename))

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO records (filename, path, size, extension, category, created_at, updated_at)
         VALUES (?, ?, ?, ?, NULL, ?, ?)`,
		filename,
		path,
		size,
		nullableString(extension),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	return s.RecordByFilename(ctx, filename)
}

// SetRecordCategory assigns a category to an existing record. The boolean
// reports whether a record with the filename was found.
func (s *Store) SetRecordCategory(ctx context.Context, filename, category string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE records SET category = ?, updated_at = ? WHERE filename = ?`,
		category,
		time.Now().UTC().Format(time.RFC3339Nano),
		filename,
	)
	if err != nil {
		return false, fmt.Errorf("update record category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record rows affected: %w", err)
	}
	return affected > 0, nil
}

// RecordByFilename fetches a record by its unique filename. It returns
// (nil, nil) when absent.
func (s *Store) RecordByFilename(ctx context.Context, filename string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE filename = ?`, filename)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// RecordsByCategory returns records assigned to a category, ordered by filename.
func (s *Store) RecordsByCategory(ctx context.Context, category string) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM records WHERE category = ? ORDER BY filename`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("query records by category: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
