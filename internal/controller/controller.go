package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"shelfsort/internal/config"
	"shelfsort/internal/ledger"
	"shelfsort/internal/textutil"
)

// Classifier maps a batch of item names to category labels. Implementations
// must degrade to an empty mapping rather than fail; a missing key means
// "unclassified".
type Classifier interface {
	Classify(ctx context.Context, names, knownCategories []string) map[string]string
}

// TaskLedger is the durable task state the controller drives. Implemented by
// *ledger.Store.
type TaskLedger interface {
	Task(ctx context.Context, taskID string) (*ledger.Task, error)
	UpdateTask(ctx context.Context, taskID string, processed int, completed, pending []string) (*ledger.Task, error)
}

// RecordStore persists per-file classification outcomes. Implemented by
// *ledger.Store.
type RecordStore interface {
	GetOrCreateRecord(ctx context.Context, filename, path string) (*ledger.Record, error)
	SetRecordCategory(ctx context.Context, filename, category string) (bool, error)
}

// Relocator moves one file into its category directory.
type Relocator interface {
	Relocate(path, targetRoot, category string) (string, error)
}

// CategoryLister reports the category folders already present in the target.
type CategoryLister interface {
	CategoryFolders(root, exclude string) ([]string, error)
}

// Controller drives a classification task from its current ledger state to
// completion, one batch at a time: read pending, classify, relocate, commit.
type Controller struct {
	tasks      TaskLedger
	records    RecordStore
	classifier Classifier
	relocator  Relocator
	categories CategoryLister

	targetDir string
	batchSize int
	fallback  string
	failFast  bool
	logger    *slog.Logger
}

// Params collects the controller's collaborators and settings.
type Params struct {
	Tasks      TaskLedger
	Records    RecordStore
	Classifier Classifier
	Relocator  Relocator
	Categories CategoryLister

	TargetDir string
	BatchSize int
	Fallback  string
	// OnItemFailure is config.OutcomePolicyBestEffort or
	// config.OutcomePolicyFailFast.
	OnItemFailure string
	Logger        *slog.Logger
}

// New constructs a Controller.
func New(params Params) (*Controller, error) {
	if params.Tasks == nil || params.Records == nil || params.Classifier == nil ||
		params.Relocator == nil || params.Categories == nil {
		return nil, errors.New("controller requires ledger, records, classifier, relocator, and category lister")
	}
	if params.BatchSize <= 0 {
		return nil, errors.New("controller batch size must be greater than zero")
	}
	if params.Fallback == "" {
		return nil, errors.New("controller fallback category must be set")
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		tasks:      params.Tasks,
		records:    params.Records,
		classifier: params.Classifier,
		relocator:  params.Relocator,
		categories: params.Categories,
		targetDir:  params.TargetDir,
		batchSize:  params.BatchSize,
		fallback:   params.Fallback,
		failFast:   params.OnItemFailure == config.OutcomePolicyFailFast,
		logger:     logger,
	}, nil
}

// Run processes the task's pending files batch by batch until none remain,
// returning the final committed task state. A task that errors out mid-run
// keeps its last successfully committed ledger state and stays resumable by
// calling Run again with the same id.
func (c *Controller) Run(ctx context.Context, taskID string) (*ledger.Task, error) {
	logger := c.logger.With("task_id", taskID, "run_id", uuid.NewString())

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		task, err := c.tasks.Task(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if task == nil {
			return nil, fmt.Errorf("%w: %s", ledger.ErrTaskNotFound, taskID)
		}
		if task.IsCompleted {
			logger.Info("task completed",
				"processed", task.ProcessedFiles, "total", task.TotalFiles)
			return task, nil
		}

		task, err = c.runBatch(ctx, logger, task)
		if err != nil {
			return nil, err
		}
	}
}

func (c *Controller) runBatch(ctx context.Context, logger *slog.Logger, task *ledger.Task) (*ledger.Task, error) {
	batch := task.PendingFiles
	if len(batch) > c.batchSize {
		batch = batch[:c.batchSize]
	}

	names := make([]string, len(batch))
	for i, path := range batch {
		names[i] = filepath.Base(path)
	}

	known, err := c.categories.CategoryFolders(c.targetDir, c.fallback)
	if err != nil {
		logger.Warn("list category folders failed, classifying without known categories", "error", err)
		known = nil
	}

	logger.Info("processing batch",
		"size", len(batch),
		"processed", task.ProcessedFiles,
		"total", task.TotalFiles,
		"percent", fmt.Sprintf("%.1f", task.ProgressPercent()))

	mapping := c.classifier.Classify(ctx, names, known)
	if len(mapping) == 0 {
		logger.Warn("classifier returned no mapping, fallback category will be applied", "fallback", c.fallback)
	}

	outcomes := make([]string, 0, len(batch))
	var itemErr error
	for _, path := range batch {
		name := filepath.Base(path)
		category := c.fallback
		if label, ok := mapping[name]; ok {
			// Labels come from an untrusted model response and must not be
			// allowed to escape the target directory.
			if safe := textutil.CategoryFolderName(label); safe != "" {
				category = safe
			}
		}

		if err := c.applyOutcome(ctx, name, path, category); err != nil {
			logger.Error("process file failed", "file", name, "category", category, "error", err)
			if c.failFast {
				itemErr = fmt.Errorf("process %s: %w", name, err)
				break
			}
			// Best-effort policy: the file still counts as processed so the
			// queue keeps draining; the failure stays visible in the log and
			// in the missing record.
		} else {
			logger.Info("file classified", "file", name, "category", category)
		}
		outcomes = append(outcomes, path)
	}

	if len(outcomes) > 0 {
		newPending := subtract(task.PendingFiles, outcomes)
		newCompleted := append(append([]string{}, task.CompletedFiles...), outcomes...)
		processed := task.ProcessedFiles + len(outcomes)

		task, err = c.tasks.UpdateTask(ctx, task.TaskID, processed, newCompleted, newPending)
		if err != nil {
			// Files moved in this batch are not rolled back; the ledger keeps
			// its previous committed state and the run aborts as resumable.
			return nil, fmt.Errorf("commit batch: %w", err)
		}
		logger.Info("batch committed",
			"processed", task.ProcessedFiles, "total", task.TotalFiles)
	}

	if itemErr != nil {
		return nil, itemErr
	}
	return task, nil
}

// applyOutcome relocates one file and records the result. A relocation
// failure skips the record writes, mirroring that no file arrived anywhere.
func (c *Controller) applyOutcome(ctx context.Context, name, path, category string) error {
	finalPath, err := c.relocator.Relocate(path, c.targetDir, category)
	if err != nil {
		return err
	}
	if _, err := c.records.GetOrCreateRecord(ctx, name, finalPath); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	if _, err := c.records.SetRecordCategory(ctx, name, category); err != nil {
		return fmt.Errorf("record category %s: %w", name, err)
	}
	return nil
}

// subtract returns pending minus done, preserving pending order.
func subtract(pending, done []string) []string {
	doneSet := make(map[string]struct{}, len(done))
	for _, path := range done {
		doneSet[path] = struct{}{}
	}
	remaining := make([]string, 0, len(pending))
	for _, path := range pending {
		if _, ok := doneSet[path]; ok {
			continue
		}
		remaining = append(remaining, path)
	}
	return remaining
}
