// Package ledger persists classification tasks and per-file records in SQLite.
//
// The Store is the single source of truth for task state. A task's pending and
// completed file lists form a partition of its files: the two never overlap,
// items only ever move from pending to completed, and the processed counter is
// derived from the partition. UpdateTask is the only write path for these
// fields and enforces the invariant inside its transaction, so a failed update
// rolls back to the prior committed state.
//
// Records track one row per processed file (filename-unique) with the category
// assigned by classification. The database lives in the target directory next
// to the organized files and doubles as the audit trail; tasks are never
// deleted here.
package ledger
