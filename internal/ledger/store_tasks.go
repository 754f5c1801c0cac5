package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const taskColumns = "id, task_id, total_files, processed_files, completed_files, pending_files, is_completed, created_at, updated_at"

// CreateTask inserts a new task whose pending set is the full file list.
// It fails with ErrTaskExists when the id is taken and ErrNoFiles when the
// list is empty; neither condition is silently defaulted.
func (s *Store) CreateTask(ctx context.Context, taskID string, files []string) (*Task, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	pendingJSON, err := encodeFileList(files)
	if err != nil {
		return nil, fmt.Errorf("encode pending files: %w", err)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM tasks WHERE task_id = ?`, taskID).Scan(&count); err != nil {
		return nil, fmt.Errorf("check task id: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskExists, taskID)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO tasks (
            task_id, total_files, processed_files, completed_files, pending_files,
            is_completed, created_at, updated_at
        ) VALUES (?, ?, 0, '[]', ?, 0, ?, ?)`,
		taskID,
		len(files),
		pendingJSON,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	return s.Task(ctx, taskID)
}

// Task fetches a task by its public id. It returns (nil, nil) when absent.
func (s *Store) Task(ctx context.Context, taskID string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = ?`, taskID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// UpdateTask replaces the processed counter and the pending/completed lists in
// a single transaction, recomputing is_completed and bumping updated_at. The
// partition invariant is enforced here, at the only write path for these
// fields: pending and completed must be disjoint, together cover exactly the
// task's files, and the processed counter must equal total minus pending.
func (s *Store) UpdateTask(ctx context.Context, taskID string, processed int, completed, pending []string) (*Task, error) {
	completedJSON, err := encodeFileList(completed)
	if err != nil {
		return nil, fmt.Errorf("encode completed files: %w", err)
	}
	pendingJSON, err := encodeFileList(pending)
	if err != nil {
		return nil, fmt.Errorf("encode pending files: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var totalFiles int
	err = tx.QueryRowContext(ctx, `SELECT total_files FROM tasks WHERE task_id = ?`, taskID).Scan(&totalFiles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("read task for update: %w", err)
	}

	if err := validatePartition(totalFiles, processed, completed, pending); err != nil {
		return nil, err
	}

	isCompleted := len(pending) == 0
	_, err = tx.ExecContext(
		ctx,
		`UPDATE tasks
         SET processed_files = ?, completed_files = ?, pending_files = ?,
             is_completed = ?, updated_at = ?
         WHERE task_id = ?`,
		processed,
		completedJSON,
		pendingJSON,
		boolToInt(isCompleted),
		time.Now().UTC().Format(time.RFC3339Nano),
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	return s.Task(ctx, taskID)
}

// ListPending returns incomplete tasks ordered by creation time.
func (s *Store) ListPending(ctx context.Context) ([]*Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks WHERE is_completed = 0 ORDER BY created_at`)
}

// ListTasks returns every task ordered by creation time.
func (s *Store) ListTasks(ctx context.Context) ([]*Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at`)
}

func (s *Store) listTasks(ctx context.Context, query string) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func validatePartition(totalFiles, processed int, completed, pending []string) error {
	seen := make(map[string]struct{}, len(completed))
	for _, path := range completed {
		seen[path] = struct{}{}
	}
	for _, path := range pending {
		if _, ok := seen[path]; ok {
			return fmt.Errorf("%w: %s is both pending and completed", ErrInvalidUpdate, path)
		}
	}
	if len(completed)+len(pending) != totalFiles {
		return fmt.Errorf("%w: completed (%d) + pending (%d) must cover all %d files",
			ErrInvalidUpdate, len(completed), len(pending), totalFiles)
	}
	if processed != totalFiles-len(pending) {
		return fmt.Errorf("%w: processed (%d) must equal total (%d) minus pending (%d)",
			ErrInvalidUpdate, processed, totalFiles, len(pending))
	}
	return nil
}
