package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

func scanTask(scanner interface{ Scan(dest ...any) error }) (*Task, error) {
	var (
		id            int64
		taskID        string
		totalFiles    int
		processed     int
		completedJSON sql.NullString
		pendingJSON   sql.NullString
		isCompleted   sql.NullInt64
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&taskID,
		&totalFiles,
		&processed,
		&completedJSON,
		&pendingJSON,
		&isCompleted,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	completed, err := decodeFileList(completedJSON.String)
	if err != nil {
		return nil, fmt.Errorf("decode completed files: %w", err)
	}
	pending, err := decodeFileList(pendingJSON.String)
	if err != nil {
		return nil, fmt.Errorf("decode pending files: %w", err)
	}

	task := &Task{
		ID:             id,
		TaskID:         taskID,
		TotalFiles:     totalFiles,
		ProcessedFiles: processed,
		CompletedFiles: completed,
		PendingFiles:   pending,
	}
	if isCompleted.Valid {
		task.IsCompleted = isCompleted.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		task.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		task.UpdatedAt = updated
	}
	return task, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id         int64
		filename   string
		path       sql.NullString
		size       sql.NullInt64
		extension  sql.NullString
		category   sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&filename,
		&path,
		&size,
		&extension,
		&category,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:        id,
		Filename:  filename,
		Path:      path.String,
		Size:      size.Int64,
		Extension: extension.String,
		Category:  category.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func encodeFileList(files []string) (string, error) {
	if files == nil {
		files = []string{}
	}
	data, err := json.Marshal(files)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeFileList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var files []string
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, err
	}
	if files == nil {
		files = []string{}
	}
	return files, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
