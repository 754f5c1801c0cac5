package ledger

import "time"

// Task is the durable record of one classification job: the partition of its
// files into pending and completed sets plus the derived counters.
type Task struct {
	ID             int64
	TaskID         string
	TotalFiles     int
	ProcessedFiles int
	PendingFiles   []string
	CompletedFiles []string
	IsCompleted    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProgressPercent returns task completion as a value between 0 and 100.
func (t *Task) ProgressPercent() float64 {
	if t == nil || t.TotalFiles == 0 {
		return 0
	}
	return float64(t.ProcessedFiles) / float64(t.TotalFiles) * 100
}

// Record stores per-file metadata and the category assigned by classification.
// Filenames are assumed unique across the source tree scanned in one run.
type Record struct {
	ID        int64
	Filename  string
	Path      string
	Size      int64
	Extension string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
