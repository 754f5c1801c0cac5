package ledger_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"shelfsort/internal/ledger"
	"shelfsort/internal/testsupport"
)

func TestCreateTaskInitializesPartition(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	files := []string{"/src/a.pdf", "/src/b.epub", "/src/c.txt"}
	task, err := store.CreateTask(ctx, "task_1", files)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.TotalFiles != 3 || task.ProcessedFiles != 0 {
		t.Fatalf("unexpected counters: %#v", task)
	}
	if !reflect.DeepEqual(task.PendingFiles, files) {
		t.Fatalf("pending should equal input files, got %v", task.PendingFiles)
	}
	if len(task.CompletedFiles) != 0 {
		t.Fatalf("completed should start empty, got %v", task.CompletedFiles)
	}
	if task.IsCompleted {
		t.Fatal("new task must not be completed")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatal("timestamps should be set")
	}
}

func TestCreateTaskRejectsDuplicateID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.CreateTask(ctx, "task_dup", []string{"/src/a.pdf"}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	_, err := store.CreateTask(ctx, "task_dup", []string{"/src/b.pdf"})
	if !errors.Is(err, ledger.ErrTaskExists) {
		t.Fatalf("expected ErrTaskExists, got %v", err)
	}
}

func TestCreateTaskRejectsInvalidArguments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if _, err := store.CreateTask(ctx, "task_empty", nil); !errors.Is(err, ledger.ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
	if _, err := store.CreateTask(ctx, "  ", []string{"/src/a.pdf"}); !errors.Is(err, ledger.ErrEmptyTaskID) {
		t.Fatalf("expected ErrEmptyTaskID, got %v", err)
	}
}

func TestTaskReturnsNilWhenAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	task, err := store.Task(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Task failed: %v", err)
	}
	if task != nil {
		t.Fatalf("expected nil for unknown id, got %#v", task)
	}
}

func TestUpdateTaskMaintainsInvariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	files := []string{"/src/a.pdf", "/src/b.pdf", "/src/c.pdf"}
	if _, err := store.CreateTask(ctx, "task_upd", files); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	task, err := store.UpdateTask(ctx, "task_upd", 2, files[:2], files[2:])
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if task.ProcessedFiles != task.TotalFiles-len(task.PendingFiles) {
		t.Fatalf("processed invariant broken: %#v", task)
	}
	if task.IsCompleted {
		t.Fatal("task with pending files must not be completed")
	}

	task, err = store.UpdateTask(ctx, "task_upd", 3, files, nil)
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if !task.IsCompleted {
		t.Fatal("task with empty pending must be completed")
	}
	if task.ProcessedFiles != 3 {
		t.Fatalf("expected processed 3, got %d", task.ProcessedFiles)
	}
}

func TestUpdateTaskRejectsInvalidPartition(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	files := []string{"/src/a.pdf", "/src/b.pdf"}
	if _, err := store.CreateTask(ctx, "task_bad", files); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	cases := []struct {
		name      string
		processed int
		completed []string
		pending   []string
	}{
		{"overlap", 1, files[:1], files},
		{"dropped file", 1, files[:1], nil},
		{"wrong counter", 2, files[:1], files[1:]},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.UpdateTask(ctx, "task_bad", tc.processed, tc.completed, tc.pending)
			if !errors.Is(err, ledger.ErrInvalidUpdate) {
				t.Fatalf("expected ErrInvalidUpdate, got %v", err)
			}

			// The rejected update must leave the committed state untouched.
			task, err := store.Task(ctx, "task_bad")
			if err != nil {
				t.Fatalf("Task failed: %v", err)
			}
			if task.ProcessedFiles != 0 || len(task.PendingFiles) != 2 || len(task.CompletedFiles) != 0 {
				t.Fatalf("state mutated by rejected update: %#v", task)
			}
		})
	}
}

func TestUpdateTaskUnknownID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.UpdateTask(context.Background(), "ghost", 0, nil, nil)
	if !errors.Is(err, ledger.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestListPendingExcludesCompleted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	files := []string{"/src/a.pdf"}
	if _, err := store.CreateTask(ctx, "task_open", files); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := store.CreateTask(ctx, "task_done", files); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if _, err := store.UpdateTask(ctx, "task_done", 1, files, nil); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].TaskID != "task_open" {
		t.Fatalf("unexpected pending tasks: %#v", pending)
	}

	all, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}
}

func TestGetOrCreateRecordIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	paths := testsupport.WriteSourceFiles(t, cfg, "guide.pdf")

	ctx := context.Background()
	first, err := store.GetOrCreateRecord(ctx, "guide.pdf", paths[0])
	if err != nil {
		t.Fatalf("GetOrCreateRecord failed: %v", err)
	}
	if first.Extension != ".pdf" {
		t.Fatalf("unexpected extension %q", first.Extension)
	}
	if first.Size == 0 {
		t.Fatal("expected size from stat")
	}

	second, err := store.GetOrCreateRecord(ctx, "guide.pdf", filepath.Join(cfg.Paths.TargetDir, "elsewhere.pdf"))
	if err != nil {
		t.Fatalf("GetOrCreateRecord failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same record, got %d and %d", first.ID, second.ID)
	}
	if second.Path != first.Path {
		t.Fatalf("existing record path must not change, got %q", second.Path)
	}
}

func TestSetRecordCategory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	paths := testsupport.WriteSourceFiles(t, cfg, "novel.epub")

	ctx := context.Background()
	if _, err := store.GetOrCreateRecord(ctx, "novel.epub", paths[0]); err != nil {
		t.Fatalf("GetOrCreateRecord failed: %v", err)
	}

	found, err := store.SetRecordCategory(ctx, "novel.epub", "Fiction")
	if err != nil {
		t.Fatalf("SetRecordCategory failed: %v", err)
	}
	if !found {
		t.Fatal("expected record to be found")
	}

	record, err := store.RecordByFilename(ctx, "novel.epub")
	if err != nil {
		t.Fatalf("RecordByFilename failed: %v", err)
	}
	if record.Category != "Fiction" {
		t.Fatalf("unexpected category %q", record.Category)
	}

	byCategory, err := store.RecordsByCategory(ctx, "Fiction")
	if err != nil {
		t.Fatalf("RecordsByCategory failed: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Filename != "novel.epub" {
		t.Fatalf("unexpected records: %#v", byCategory)
	}

	found, err = store.SetRecordCategory(ctx, "missing.pdf", "Fiction")
	if err != nil {
		t.Fatalf("SetRecordCategory failed: %v", err)
	}
	if found {
		t.Fatal("expected missing record to report false")
	}
}
