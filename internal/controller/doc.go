// Package controller orchestrates the batch classification loop.
//
// One logical worker drives a task: slice the next batch off the pending
// list, ask the classifier for a name-to-category mapping, relocate each file
// and record the outcome, then commit the new pending/completed partition to
// the ledger in a single atomic update. The loop repeats until no pending
// files remain.
//
// Per-item failures follow the configured outcome policy: best-effort marks
// the file processed anyway so the queue never wedges on one bad file, while
// fail-fast aborts the run and leaves the file pending. A failed ledger
// commit always aborts the run; files already moved in that batch are not
// rolled back, so a resumed run may re-attempt relocations that fail cleanly
// on the missing source.
package controller
